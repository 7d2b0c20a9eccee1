package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EvaluationResult is the composite risk report for one address.
type EvaluationResult struct {
	Score            float64         `json:"score"`
	TransactionCount int64           `json:"transactions"`
	Blacklisted      bool            `json:"blacklist"`
	Balance          decimal.Decimal `json:"balance"`
	FirstTransaction time.Time       `json:"first_transaction,omitzero"`
	LastTransaction  time.Time       `json:"last_transaction,omitzero"`
	ReputationTag    string          `json:"tag"`
}

// NeutralResult is the result reported for a wallet with no history.
func NeutralResult() EvaluationResult {
	return EvaluationResult{
		Balance:       decimal.Zero,
		ReputationTag: "normal",
	}
}

// OutcomeKind tags the terminal state of one pipeline run.
type OutcomeKind string

const (
	OutcomeSuccess             OutcomeKind = "success"
	OutcomeInvalidAddress      OutcomeKind = "invalid_address"
	OutcomeEmptyHistory        OutcomeKind = "empty_history"
	OutcomeInsufficientHistory OutcomeKind = "insufficient_history"
	OutcomeSanctioned          OutcomeKind = "sanctioned"
	OutcomeUpstreamFailure     OutcomeKind = "upstream_failure"
)

// Outcome is the tagged result of one pipeline run. Exactly one variant
// is produced per invocation; Result is set for Success and EmptyHistory,
// Evidence for Sanctioned, Reason for UpstreamFailure.
type Outcome struct {
	Kind     OutcomeKind        `json:"kind"`
	Result   *EvaluationResult  `json:"result,omitempty"`
	Evidence []SanctionsListing `json:"evidence,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

func Success(r EvaluationResult) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: &r}
}

func InvalidAddress() Outcome {
	return Outcome{Kind: OutcomeInvalidAddress}
}

func EmptyHistory() Outcome {
	r := NeutralResult()
	return Outcome{Kind: OutcomeEmptyHistory, Result: &r}
}

func InsufficientHistory() Outcome {
	return Outcome{Kind: OutcomeInsufficientHistory}
}

func Sanctioned(evidence []SanctionsListing) Outcome {
	return Outcome{Kind: OutcomeSanctioned, Evidence: evidence}
}

func UpstreamFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeUpstreamFailure, Reason: reason}
}
