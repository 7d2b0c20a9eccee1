package detector

import (
	"sort"
	"time"

	"github.com/vietddude/screener/internal/core/domain"
)

// Transfers flags bursts: adjacent transfers involving the screened
// address whose time delta is below minInterval. A delta exactly equal
// to the threshold does not trigger. Pure function of its inputs.
func Transfers(batch domain.Batch, minInterval time.Duration, address string) domain.Finding {
	finding := domain.Finding{Kind: domain.FindingTransfer}

	involved := make([]domain.Transfer, 0, len(batch.Transfers))
	for _, t := range batch.Transfers {
		if t.From == address || t.To == address {
			involved = append(involved, t)
		}
	}
	if len(involved) < 2 {
		return finding
	}

	sort.Slice(involved, func(i, j int) bool {
		return involved[i].TimestampMillis < involved[j].TimestampMillis
	})

	evidence := domain.TransferEvidence{MinInterval: -1}
	for i := 1; i < len(involved); i++ {
		delta := time.Duration(involved[i].TimestampMillis-involved[i-1].TimestampMillis) * time.Millisecond
		if evidence.MinInterval < 0 || delta < evidence.MinInterval {
			evidence.MinInterval = delta
			evidence.FirstID = involved[i-1].ID
			evidence.SecondID = involved[i].ID
		}
	}

	if evidence.MinInterval >= 0 && evidence.MinInterval < minInterval {
		finding.Triggered = true
		finding.Transfer = &evidence
	}
	return finding
}
