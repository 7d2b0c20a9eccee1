package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "log/slog"

	"github.com/google/uuid"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
	"github.com/vietddude/screener/internal/screening/detector"
	"github.com/vietddude/screener/internal/screening/metrics"
	"github.com/vietddude/screener/internal/screening/score"
	"golang.org/x/sync/errgroup"
)

// TransactionSource fetches an address's tracked-asset history.
type TransactionSource interface {
	Transfers(ctx context.Context, address string) (domain.Batch, error)
}

// ProfileSource fetches summary account facts. Never fails; outages
// surface as a zero-value degraded profile.
type ProfileSource interface {
	Profile(ctx context.Context, address string) domain.AccountProfile
}

// SanctionsChecker returns the compliance verdict for an address.
type SanctionsChecker interface {
	Check(ctx context.Context, address string) domain.SanctionsVerdict
}

// HidingDetector is the one detector that may perform live lookups.
type HidingDetector interface {
	Evaluate(ctx context.Context, batch domain.Batch, address string) domain.Finding
}

// Pipeline orchestrates one evaluation: history fetch, gate checks,
// sanctions, detectors, aggregation. Stateless across runs.
type Pipeline struct {
	cfg          config.ScreeningConfig
	transactions TransactionSource
	profiles     ProfileSource
	sanctions    SanctionsChecker
	hiding       HidingDetector
	log          *logger.Logger
}

// New creates an evaluation pipeline.
func New(
	cfg config.ScreeningConfig,
	transactions TransactionSource,
	profiles ProfileSource,
	sanctions SanctionsChecker,
	hiding HidingDetector,
) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		transactions: transactions,
		profiles:     profiles,
		sanctions:    sanctions,
		hiding:       hiding,
		log:          logger.Default().With("component", "pipeline"),
	}
}

// guarded converts a panic inside a concurrent stage into a returned
// error, so a misbehaving collaborator surfaces after Wait instead of
// killing the process. errgroup does not recover goroutine panics.
func guarded(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}

// Evaluate screens one address and returns exactly one outcome variant.
// The first matching exit gate terminates the run; panics are recovered
// at this boundary and reported as an upstream failure.
func (p *Pipeline) Evaluate(ctx context.Context, address string) (out domain.Outcome) {
	start := time.Now()
	log := p.log.With("run_id", uuid.NewString(), "address", address)

	defer func() {
		if r := recover(); r != nil {
			out = domain.UpstreamFailure(fmt.Sprintf("panic: %v", r))
		}
		metrics.EvaluationsTotal.WithLabelValues(string(out.Kind)).Inc()
		metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
		log.Info("evaluation finished",
			"outcome", out.Kind, "duration", time.Since(start).Round(time.Millisecond))
	}()

	// Stage 1: transaction history. The only hard-failing fetch.
	batch, err := p.transactions.Transfers(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			log.Info("address rejected by upstream")
			return domain.InvalidAddress()
		}
		log.Error("history fetch failed", "error", err)
		return domain.UpstreamFailure(err.Error())
	}
	if batch.Empty() {
		return domain.EmptyHistory()
	}

	// Stage 2: account profile gate. The profile's authoritative count
	// governs, not the batch size.
	profile := p.profiles.Profile(ctx, address)
	if profile.TransactionCount <= p.cfg.MinAccountTransactions {
		return domain.InsufficientHistory()
	}

	// Stage 3: span and sanctions are independent of each other.
	var (
		first, last time.Time
		verdict     domain.SanctionsVerdict
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		first, last = span(batch)
		return nil
	})
	g.Go(guarded(func() error {
		verdict = p.sanctions.Check(gctx, address)
		return nil
	}))
	if err := g.Wait(); err != nil {
		log.Error("sanctions stage failed", "error", err)
		return domain.UpstreamFailure(err.Error())
	}

	// Stage 4: a positive verdict overrides everything else.
	if verdict.Sanctioned {
		log.Warn("address is sanctioned", "listings", len(verdict.Evidence))
		return domain.Sanctioned(verdict.Evidence)
	}

	// Stage 5: detectors are independent and order-insensitive.
	minInterval := time.Duration(p.cfg.MinIntervalSeconds) * time.Second
	var valueFinding, transferFinding, hidingFinding domain.Finding

	dg, dctx := errgroup.WithContext(ctx)
	dg.Go(guarded(func() error {
		valueFinding = detector.Value(batch, p.cfg.MinValueThreshold, p.cfg.MaxValueThreshold)
		return nil
	}))
	dg.Go(guarded(func() error {
		transferFinding = detector.Transfers(batch, minInterval, address)
		return nil
	}))
	dg.Go(guarded(func() error {
		hidingFinding = p.hiding.Evaluate(dctx, batch, address)
		return nil
	}))
	if err := dg.Wait(); err != nil {
		log.Error("detector stage failed", "error", err)
		return domain.UpstreamFailure(err.Error())
	}

	// Stage 6: aggregate.
	result := score.Aggregate(valueFinding, transferFinding, hidingFinding, verdict, p.cfg.Weights,
		score.AccountFacts{
			TransactionCount: profile.TransactionCount,
			Balance:          profile.Balance,
			FirstTransaction: first,
			LastTransaction:  last,
			ReputationTag:    profile.ReputationTag,
		})
	return domain.Success(result)
}
