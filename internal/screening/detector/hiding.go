package detector

import (
	"context"
	"sort"
	"time"

	logger "log/slog"

	"github.com/vietddude/screener/internal/core/domain"
)

// CounterpartySource resolves a counterparty's own recent transfers for
// corroborating a relay pattern.
type CounterpartySource interface {
	RecentTransfers(ctx context.Context, address string, limit int) ([]domain.Transfer, error)
}

const corroborationLimit = 50

// HidingDetector flags rapid pass-through behavior: an inbound transfer
// followed within the configured interval by an outbound transfer of
// comparable magnitude to a different counterparty.
type HidingDetector struct {
	source      CounterpartySource
	minInterval time.Duration
	tolerance   float64
	log         *logger.Logger
}

// NewHidingDetector creates a hiding detector. tolerance is the allowed
// relative difference between the inbound and outbound amounts.
func NewHidingDetector(source CounterpartySource, minInterval time.Duration, tolerance float64) *HidingDetector {
	return &HidingDetector{
		source:      source,
		minInterval: minInterval,
		tolerance:   tolerance,
		log:         logger.Default().With("detector", "hiding"),
	}
}

// Evaluate scans the history for a pass-through pair. When one is
// found, a best-effort counterparty lookup checks whether the funds
// were relayed onward as well; that lookup failing never fails the
// evaluation.
func (d *HidingDetector) Evaluate(ctx context.Context, batch domain.Batch, address string) domain.Finding {
	finding := domain.Finding{Kind: domain.FindingHiding}

	ordered := make([]domain.Transfer, len(batch.Transfers))
	copy(ordered, batch.Transfers)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].TimestampMillis < ordered[j].TimestampMillis
	})

	for i, inbound := range ordered {
		if inbound.To != address {
			continue
		}

		for _, outbound := range ordered[i+1:] {
			gap := time.Duration(outbound.TimestampMillis-inbound.TimestampMillis) * time.Millisecond
			if gap >= d.minInterval {
				break
			}
			if outbound.From != address || outbound.To == inbound.From {
				continue
			}
			if !comparableMagnitude(inbound.Value, outbound.Value, d.tolerance) {
				continue
			}

			finding.Triggered = true
			finding.Hiding = &domain.HidingEvidence{
				InboundID:  inbound.ID,
				OutboundID: outbound.ID,
				Interval:   gap,
				RelayDepth: 1,
			}
			if d.relayedOnward(ctx, outbound) {
				finding.Hiding.RelayDepth = 2
			}
			return finding
		}
	}

	return finding
}

// relayedOnward checks whether the outbound counterparty forwarded a
// comparable amount within the same interval. Best-effort: any lookup
// failure reads as "not corroborated".
func (d *HidingDetector) relayedOnward(ctx context.Context, outbound domain.Transfer) bool {
	if d.source == nil {
		return false
	}

	recent, err := d.source.RecentTransfers(ctx, outbound.To, corroborationLimit)
	if err != nil {
		d.log.Warn("corroboration lookup degraded",
			"counterparty", outbound.To, "degraded", true, "error", err)
		return false
	}

	for _, t := range recent {
		if t.From != outbound.To {
			continue
		}
		gap := time.Duration(t.TimestampMillis-outbound.TimestampMillis) * time.Millisecond
		if gap <= 0 || gap >= d.minInterval {
			continue
		}
		if comparableMagnitude(outbound.Value, t.Value, d.tolerance) {
			return true
		}
	}
	return false
}

func comparableMagnitude(a, b int64, tolerance float64) bool {
	if a == 0 {
		return b == 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= tolerance*float64(a)
}
