package tronscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/screener/internal/core/config"
)

var testAsset = config.AssetConfig{Symbol: "USDT", TokenID: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", Decimals: 6}

func testClient(serverURL string) *Client {
	return NewClient(config.TronscanConfig{BaseURL: serverURL, Timeout: 5 * time.Second}, testAsset)
}

func TestProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "TAddr" {
			t.Errorf("unexpected address query: %s", r.URL.Query().Get("address"))
		}
		w.Write([]byte(`{
			"totalTransactionCount": 125,
			"redTag": "Exchange",
			"withPriceTokens": [
				{"tokenId": "_", "balance": "99"},
				{"tokenId": "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", "balance": "530000000"}
			]
		}`))
	}))
	defer server.Close()

	profile := testClient(server.URL).Profile(context.Background(), "TAddr")

	if profile.TransactionCount != 125 {
		t.Errorf("expected 125 transactions, got %d", profile.TransactionCount)
	}
	if !profile.Balance.Equal(decimal.NewFromInt(530)) {
		t.Errorf("expected balance 530, got %s", profile.Balance)
	}
	if profile.ReputationTag != "Exchange" {
		t.Errorf("unexpected tag: %s", profile.ReputationTag)
	}
	if profile.Degraded {
		t.Error("successful lookup must not be degraded")
	}
}

func TestProfile_TrackedAssetAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalTransactionCount": 12, "withPriceTokens": [{"tokenId": "_", "balance": "99"}]}`))
	}))
	defer server.Close()

	profile := testClient(server.URL).Profile(context.Background(), "TAddr")

	if !profile.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", profile.Balance)
	}
	if profile.ReputationTag != "" {
		t.Errorf("expected empty tag, got %q", profile.ReputationTag)
	}
}

func TestProfile_UpstreamFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	profile := testClient(server.URL).Profile(context.Background(), "TAddr")

	if profile.TransactionCount != 0 || !profile.Balance.IsZero() || profile.ReputationTag != "" {
		t.Errorf("expected zero profile, got %+v", profile)
	}
	if !profile.Degraded {
		t.Error("failed lookup must be marked degraded")
	}
}

func TestProfile_UnparsableResponseDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	profile := testClient(server.URL).Profile(context.Background(), "TAddr")
	if !profile.Degraded {
		t.Error("unparsable response must degrade to zero profile")
	}
}
