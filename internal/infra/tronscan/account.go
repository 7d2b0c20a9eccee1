package tronscan

import (
	"context"
	"encoding/json"
	"net/url"

	logger "log/slog"

	"github.com/shopspring/decimal"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
	"github.com/vietddude/screener/internal/infra/rest"
	"github.com/vietddude/screener/internal/screening/metrics"
)

// Client fetches summary account facts from Tronscan.
type Client struct {
	asset config.AssetConfig
	rest  *rest.Client
	log   *logger.Logger
}

// NewClient creates a Tronscan account-info client.
func NewClient(cfg config.TronscanConfig, asset config.AssetConfig) *Client {
	return &Client{
		asset: asset,
		rest:  rest.NewClient("tronscan", cfg.BaseURL, nil, cfg.Timeout),
		log:   logger.Default().With("upstream", "tronscan"),
	}
}

type accountResponse struct {
	TotalTransactionCount int64  `json:"totalTransactionCount"`
	RedTag                string `json:"redTag"`
	WithPriceTokens       []struct {
		TokenID string `json:"tokenId"`
		Balance string `json:"balance"`
	} `json:"withPriceTokens"`
}

// Profile fetches the account summary. It never fails: any request or
// parse error is absorbed into a zero-value profile marked Degraded, so
// an account-info outage reads as "no data" downstream.
func (c *Client) Profile(ctx context.Context, address string) domain.AccountProfile {
	q := url.Values{}
	q.Set("address", address)

	body, err := c.rest.Get(ctx, "/api/accountv2", q)
	if err != nil {
		c.log.Warn("account lookup degraded to zero profile",
			"address", address, "degraded", true, "error", err)
		metrics.UpstreamRequestsTotal.WithLabelValues("tronscan", "error").Inc()
		metrics.DegradedLookupsTotal.WithLabelValues("tronscan").Inc()
		return domain.ZeroProfile()
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("tronscan", "ok").Inc()

	var resp accountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warn("account response unparsable, degraded to zero profile",
			"address", address, "degraded", true, "error", err)
		metrics.DegradedLookupsTotal.WithLabelValues("tronscan").Inc()
		return domain.ZeroProfile()
	}

	profile := domain.AccountProfile{
		TransactionCount: resp.TotalTransactionCount,
		Balance:          decimal.Zero,
		ReputationTag:    resp.RedTag,
	}

	// Balance is 0 unless the tracked asset appears among the holdings.
	for _, token := range resp.WithPriceTokens {
		if token.TokenID != c.asset.TokenID {
			continue
		}
		raw, err := decimal.NewFromString(token.Balance)
		if err != nil {
			c.log.Warn("unparsable token balance", "address", address, "balance", token.Balance)
			break
		}
		profile.Balance = raw.Shift(-c.asset.Decimals)
		break
	}

	return profile
}
