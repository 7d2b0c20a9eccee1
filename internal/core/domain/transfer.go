package domain

import "time"

// Transfer represents one normalized TRC-20 transfer involving the
// screened address. Values are in the token's smallest unit.
type Transfer struct {
	ID              string    `json:"transaction_id"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Value           int64     `json:"value"`
	TimestampMillis int64     `json:"timestamp"`
	Time            time.Time `json:"time"`
	AssetSymbol     string    `json:"symbol"`
}

// Batch is the transfer history collected for one evaluation,
// newest-first as returned by the upstream.
type Batch struct {
	Transfers []Transfer

	// Complete is false when pagination stopped on a failed page request,
	// so the history may be truncated.
	Complete bool
}

// Empty reports whether the batch holds no transfers.
func (b Batch) Empty() bool {
	return len(b.Transfers) == 0
}
