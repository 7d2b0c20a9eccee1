package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
)

type mockTransactions struct {
	TransfersFunc func(ctx context.Context, address string) (domain.Batch, error)
}

func (m *mockTransactions) Transfers(ctx context.Context, address string) (domain.Batch, error) {
	return m.TransfersFunc(ctx, address)
}

type mockProfiles struct {
	profile domain.AccountProfile
}

func (m *mockProfiles) Profile(ctx context.Context, address string) domain.AccountProfile {
	return m.profile
}

type mockSanctions struct {
	verdict   domain.SanctionsVerdict
	panicWith string
	called    bool
}

func (m *mockSanctions) Check(ctx context.Context, address string) domain.SanctionsVerdict {
	m.called = true
	if m.panicWith != "" {
		panic(m.panicWith)
	}
	return m.verdict
}

type mockHiding struct {
	finding   domain.Finding
	panicWith string
	called    bool
}

func (m *mockHiding) Evaluate(ctx context.Context, batch domain.Batch, address string) domain.Finding {
	m.called = true
	if m.panicWith != "" {
		panic(m.panicWith)
	}
	return m.finding
}

func testConfig() config.ScreeningConfig {
	return config.ScreeningConfig{
		MinValueThreshold:      100,
		MaxValueThreshold:      1_000_000,
		MinIntervalSeconds:     60,
		MinAccountTransactions: 10,
		Weights:                config.WeightsConfig{Value: 0.5, Transfers: 0.3, Hiding: 0.2},
	}
}

// quietBatch builds n transfers inside the value band, spaced far apart.
func quietBatch(n int) domain.Batch {
	transfers := make([]domain.Transfer, n)
	for i := range transfers {
		ts := int64(i) * 600_000
		transfers[i] = domain.Transfer{
			ID:              fmt.Sprintf("tx%d", i),
			From:            "TAddr",
			To:              "TOther",
			Value:           1000,
			TimestampMillis: ts,
			Time:            time.UnixMilli(ts),
		}
	}
	return domain.Batch{Transfers: transfers, Complete: true}
}

func newTestPipeline(
	batch domain.Batch,
	batchErr error,
	profile domain.AccountProfile,
	verdict domain.SanctionsVerdict,
) (*Pipeline, *mockSanctions, *mockHiding) {
	sanctions := &mockSanctions{verdict: verdict}
	hiding := &mockHiding{finding: domain.Finding{Kind: domain.FindingHiding}}
	p := New(
		testConfig(),
		&mockTransactions{TransfersFunc: func(ctx context.Context, address string) (domain.Batch, error) {
			return batch, batchErr
		}},
		&mockProfiles{profile: profile},
		sanctions,
		hiding,
	)
	return p, sanctions, hiding
}

func healthyProfile(count int64) domain.AccountProfile {
	return domain.AccountProfile{TransactionCount: count, Balance: decimal.NewFromInt(530), ReputationTag: "Exchange"}
}

func TestEvaluate_InvalidAddress(t *testing.T) {
	p, _, _ := newTestPipeline(domain.Batch{}, fmt.Errorf("wrap: %w", domain.ErrInvalidAddress), domain.AccountProfile{}, domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "nope")
	if out.Kind != domain.OutcomeInvalidAddress {
		t.Errorf("expected invalid_address, got %s", out.Kind)
	}
}

func TestEvaluate_UpstreamFailure(t *testing.T) {
	p, _, _ := newTestPipeline(domain.Batch{}, fmt.Errorf("wrap: %w", domain.ErrUpstream), domain.AccountProfile{}, domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TAddr")
	if out.Kind != domain.OutcomeUpstreamFailure {
		t.Errorf("expected upstream_failure, got %s", out.Kind)
	}
	if out.Reason == "" {
		t.Error("failure outcome must carry the reason")
	}
}

func TestEvaluate_EmptyHistory(t *testing.T) {
	p, sanctions, _ := newTestPipeline(domain.Batch{Complete: true}, nil, healthyProfile(50), domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TNew")

	if out.Kind != domain.OutcomeEmptyHistory {
		t.Fatalf("expected empty_history, got %s", out.Kind)
	}
	r := out.Result
	if r == nil {
		t.Fatal("empty history must carry a neutral result")
	}
	if r.Score != 0.0 || r.Blacklisted || r.TransactionCount != 0 {
		t.Errorf("non-neutral result: %+v", r)
	}
	if r.ReputationTag != "normal" {
		t.Errorf("expected tag \"normal\", got %q", r.ReputationTag)
	}
	if !r.FirstTransaction.IsZero() || !r.LastTransaction.IsZero() {
		t.Error("neutral result must have absent timestamps")
	}
	if sanctions.called {
		t.Error("empty history must short-circuit before the sanctions check")
	}
}

func TestEvaluate_InsufficientHistory_ProfileCountGoverns(t *testing.T) {
	// the raw batch has 50 records, but the profile says 3
	p, sanctions, _ := newTestPipeline(quietBatch(50), nil, healthyProfile(3), domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TAddr")
	if out.Kind != domain.OutcomeInsufficientHistory {
		t.Errorf("expected insufficient_history, got %s", out.Kind)
	}
	if sanctions.called {
		t.Error("insufficient history must short-circuit before the sanctions check")
	}
}

func TestEvaluate_GateAtExactlyTen(t *testing.T) {
	p, _, _ := newTestPipeline(quietBatch(50), nil, healthyProfile(10), domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TAddr")
	if out.Kind != domain.OutcomeInsufficientHistory {
		t.Errorf("a count of exactly 10 must still gate, got %s", out.Kind)
	}
}

func TestEvaluate_SanctionedShortCircuits(t *testing.T) {
	verdict := domain.SanctionsVerdict{
		Sanctioned: true,
		Evidence:   []domain.SanctionsListing{{Category: "sanctions", Name: "SDN Entity"}},
	}
	// an anomalous batch too: sanctions must still win
	batch := quietBatch(20)
	batch.Transfers[0].Value = 50_000_000 // far outside the band
	p, _, hiding := newTestPipeline(batch, nil, healthyProfile(50), verdict)

	out := p.Evaluate(context.Background(), "TBad")

	if out.Kind != domain.OutcomeSanctioned {
		t.Fatalf("expected sanctioned, got %s", out.Kind)
	}
	if len(out.Evidence) != 1 {
		t.Errorf("expected evidence to be carried, got %+v", out.Evidence)
	}
	if hiding.called {
		t.Error("detectors must not run for a sanctioned address")
	}
}

func TestEvaluate_CleanSuccess(t *testing.T) {
	p, _, hiding := newTestPipeline(quietBatch(50), nil, healthyProfile(125), domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TAddr")

	if out.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %s", out.Kind)
	}
	r := out.Result
	if r.Score != 0.0 {
		t.Errorf("expected score 0.0 with no anomalies, got %v", r.Score)
	}
	if r.Blacklisted {
		t.Error("clean address must not be blacklisted")
	}
	if r.TransactionCount != 125 {
		t.Errorf("profile facts not carried: %+v", r)
	}
	if !r.FirstTransaction.Equal(time.UnixMilli(0)) {
		t.Errorf("unexpected first transaction: %v", r.FirstTransaction)
	}
	if !r.LastTransaction.Equal(time.UnixMilli(49 * 600_000)) {
		t.Errorf("unexpected last transaction: %v", r.LastTransaction)
	}
	if !hiding.called {
		t.Error("hiding detector must run on the success path")
	}
}

func TestEvaluate_ValueOutlierScoresItsWeight(t *testing.T) {
	batch := quietBatch(50)
	batch.Transfers[7].Value = 50_000_000
	p, _, _ := newTestPipeline(batch, nil, healthyProfile(50), domain.SanctionsVerdict{})

	out := p.Evaluate(context.Background(), "TAddr")

	if out.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %s", out.Kind)
	}
	if out.Result.Score != 0.5 {
		t.Errorf("expected score 0.5 (value weight), got %v", out.Result.Score)
	}
}

// A panicking collaborator must surface as an upstream failure no
// matter which stage it runs in, including the concurrent ones.
func TestEvaluate_PanicBecomesUpstreamFailure(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Pipeline
	}{
		{"history fetch", func() *Pipeline {
			return New(
				testConfig(),
				&mockTransactions{TransfersFunc: func(ctx context.Context, address string) (domain.Batch, error) {
					panic("unexpected upstream shape")
				}},
				&mockProfiles{},
				&mockSanctions{},
				&mockHiding{},
			)
		}},
		{"sanctions check", func() *Pipeline {
			return New(
				testConfig(),
				&mockTransactions{TransfersFunc: func(ctx context.Context, address string) (domain.Batch, error) {
					return quietBatch(50), nil
				}},
				&mockProfiles{profile: healthyProfile(125)},
				&mockSanctions{panicWith: "malformed verdict"},
				&mockHiding{},
			)
		}},
		{"hiding detector", func() *Pipeline {
			return New(
				testConfig(),
				&mockTransactions{TransfersFunc: func(ctx context.Context, address string) (domain.Batch, error) {
					return quietBatch(50), nil
				}},
				&mockProfiles{profile: healthyProfile(125)},
				&mockSanctions{},
				&mockHiding{panicWith: "nil counterparty record"},
			)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.build().Evaluate(context.Background(), "TAddr")
			if out.Kind != domain.OutcomeUpstreamFailure {
				t.Fatalf("expected upstream_failure, got %s", out.Kind)
			}
			if out.Reason == "" {
				t.Error("panic outcome must carry a reason")
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	batch := quietBatch(50)
	batch.Transfers[3].Value = 50_000_000

	run := func() domain.Outcome {
		p, _, _ := newTestPipeline(batch, nil, healthyProfile(125), domain.SanctionsVerdict{})
		return p.Evaluate(context.Background(), "TAddr")
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outcomes:\n%+v\n%+v", first, second)
	}
}
