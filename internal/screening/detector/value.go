package detector

import "github.com/vietddude/screener/internal/core/domain"

// Value flags transfers whose amount falls strictly outside the
// configured band. Amounts exactly at a boundary are acceptable.
// Pure function of its inputs.
func Value(batch domain.Batch, minThreshold, maxThreshold int64) domain.Finding {
	finding := domain.Finding{Kind: domain.FindingValue}

	evidence := domain.ValueEvidence{}
	for _, t := range batch.Transfers {
		if t.Value >= minThreshold && t.Value <= maxThreshold {
			continue
		}
		evidence.TransferIDs = append(evidence.TransferIDs, t.ID)
		evidence.Values = append(evidence.Values, t.Value)
	}

	if len(evidence.TransferIDs) > 0 {
		finding.Triggered = true
		finding.Value = &evidence
	}
	return finding
}
