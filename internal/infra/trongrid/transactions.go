package trongrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	logger "log/slog"

	"github.com/sethvargo/go-retry"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
	"github.com/vietddude/screener/internal/infra/rest"
	"github.com/vietddude/screener/internal/screening/metrics"
)

// Client fetches an address's TRC-20 transfer history from TronGrid.
// API docs: https://developers.tron.network/reference
type Client struct {
	cfg   config.TronGridConfig
	asset config.AssetConfig
	rest  *rest.Client
	log   *logger.Logger
}

// NewClient creates a TronGrid history client.
func NewClient(cfg config.TronGridConfig, asset config.AssetConfig) *Client {
	headers := map[string]string{"TRON-PRO-API-KEY": cfg.APIKey}
	return &Client{
		cfg:   cfg,
		asset: asset,
		rest:  rest.NewClient("trongrid", cfg.BaseURL, headers, cfg.Timeout),
		log:   logger.Default().With("upstream", "trongrid"),
	}
}

type pageRecord struct {
	TransactionID  string `json:"transaction_id"`
	From           string `json:"from"`
	To             string `json:"to"`
	Value          string `json:"value"`
	BlockTimestamp int64  `json:"block_timestamp"`
	TokenInfo      struct {
		Symbol string `json:"symbol"`
	} `json:"token_info"`
}

type page struct {
	Data []pageRecord `json:"data"`
	Meta struct {
		Fingerprint string `json:"fingerprint"`
	} `json:"meta"`
}

// Transfers fetches the address's tracked-asset transfer history,
// paginating via the fingerprint cursor until the cursor runs out, a
// page fails, or the approximate cap is reached. The cap is soft: the
// batch may overshoot it by up to one page.
//
// A failed page after the first does not discard collected records; the
// batch is returned as-is with Complete set to false.
func (c *Client) Transfers(ctx context.Context, address string) (domain.Batch, error) {
	first, err := c.fetchPage(ctx, address, "")
	if err != nil {
		var statusErr *rest.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 400 {
			return domain.Batch{}, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, address)
		}
		return domain.Batch{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	// No data at all means a freshly created wallet, not an error.
	if len(first.Data) == 0 {
		metrics.TransferPagesFetched.Observe(1)
		return domain.Batch{Complete: true}, nil
	}

	batch := domain.Batch{
		Transfers: c.normalize(first.Data),
		Complete:  true,
	}
	fingerprint := first.Meta.Fingerprint
	pages := 1

	for len(batch.Transfers) < c.cfg.MaxTransactions && fingerprint != "" {
		next, err := c.fetchPage(ctx, address, fingerprint)
		if err != nil {
			c.log.Warn("pagination stopped on failed page",
				"address", address, "pages", pages, "error", err)
			batch.Complete = false
			break
		}
		pages++

		if len(next.Data) == 0 {
			break
		}
		batch.Transfers = append(batch.Transfers, c.normalize(next.Data)...)
		fingerprint = next.Meta.Fingerprint
	}

	metrics.TransferPagesFetched.Observe(float64(pages))
	return batch, nil
}

// RecentTransfers fetches a single page of history for a counterparty.
// Used by the hiding detector's corroboration lookup.
func (c *Client) RecentTransfers(ctx context.Context, address string, limit int) ([]domain.Transfer, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.rest.Get(ctx, "/v1/accounts/"+address+"/transactions/trc20", q)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("trongrid", "error").Inc()
		return nil, fmt.Errorf("fetch recent transfers: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("trongrid", "ok").Inc()

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parse recent transfers: %w", err)
	}
	return c.normalize(p.Data), nil
}

// fetchPage issues one history page request. Transient failures are
// retried with backoff; 4xx responses are surfaced immediately. Query
// parameters are built fresh per call.
func (c *Client) fetchPage(ctx context.Context, address, fingerprint string) (*page, error) {
	path := "/v1/accounts/" + address + "/transactions/trc20"

	var p page
	backoff := retry.WithMaxRetries(uint64(c.cfg.PageRetries), retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.cfg.PageSize))
		if fingerprint != "" {
			q.Set("fingerprint", fingerprint)
		}

		body, err := c.rest.Get(ctx, path, q)
		if err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues("trongrid", "error").Inc()
			var statusErr *rest.StatusError
			if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
				return err // client error, retrying cannot help
			}
			return retry.RetryableError(err)
		}
		metrics.UpstreamRequestsTotal.WithLabelValues("trongrid", "ok").Inc()

		p = page{}
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("parse page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// normalize keeps tracked-asset records only and converts them to the
// canonical transfer shape.
func (c *Client) normalize(records []pageRecord) []domain.Transfer {
	out := make([]domain.Transfer, 0, len(records))
	for _, r := range records {
		if r.TokenInfo.Symbol != c.asset.Symbol {
			continue
		}

		value, err := strconv.ParseInt(r.Value, 10, 64)
		if err != nil {
			c.log.Warn("skipping transfer with unparsable value",
				"transaction_id", r.TransactionID, "value", r.Value)
			continue
		}

		out = append(out, domain.Transfer{
			ID:              r.TransactionID,
			From:            r.From,
			To:              r.To,
			Value:           value,
			TimestampMillis: r.BlockTimestamp,
			Time:            time.UnixMilli(r.BlockTimestamp),
			AssetSymbol:     r.TokenInfo.Symbol,
		})
	}
	return out
}
