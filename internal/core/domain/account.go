package domain

import "github.com/shopspring/decimal"

// AccountProfile holds summary facts about an address from the
// account-info upstream.
type AccountProfile struct {
	TransactionCount int64           `json:"transaction_count"`
	Balance          decimal.Decimal `json:"balance"`
	ReputationTag    string          `json:"reputation_tag"`

	// Degraded marks a zero-value profile produced because the lookup
	// failed, as opposed to a genuinely empty account.
	Degraded bool `json:"-"`
}

// ZeroProfile returns the profile used when the account lookup fails.
func ZeroProfile() AccountProfile {
	return AccountProfile{Balance: decimal.Zero, Degraded: true}
}
