package score

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
)

// AccountFacts carries the upstream facts the aggregator passes through
// unmodified.
type AccountFacts struct {
	TransactionCount int64
	Balance          decimal.Decimal
	FirstTransaction time.Time
	LastTransaction  time.Time
	ReputationTag    string
}

// Aggregate combines the three anomaly findings and the sanctions
// verdict into one evaluation. The only computed output is the score:
// a weighted sum of triggered indicators clamped into [0,1]. Weights
// are not required to sum to 1.
func Aggregate(
	value, transfers, hiding domain.Finding,
	verdict domain.SanctionsVerdict,
	weights config.WeightsConfig,
	facts AccountFacts,
) domain.EvaluationResult {
	score := weights.Value*indicator(value) +
		weights.Transfers*indicator(transfers) +
		weights.Hiding*indicator(hiding)

	return domain.EvaluationResult{
		Score:            clamp01(score),
		TransactionCount: facts.TransactionCount,
		Blacklisted:      verdict.Sanctioned,
		Balance:          facts.Balance,
		FirstTransaction: facts.FirstTransaction,
		LastTransaction:  facts.LastTransaction,
		ReputationTag:    facts.ReputationTag,
	}
}

func indicator(f domain.Finding) float64 {
	if f.Triggered {
		return 1.0
	}
	return 0.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
