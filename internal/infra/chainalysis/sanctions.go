package chainalysis

import (
	"context"
	"encoding/json"

	logger "log/slog"

	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/core/domain"
	rediscache "github.com/vietddude/screener/internal/infra/redis"
	"github.com/vietddude/screener/internal/infra/rest"
	"github.com/vietddude/screener/internal/screening/metrics"
)

// Client checks an address against the Chainalysis sanctions screening
// API. API docs: https://public.chainalysis.com/docs/
type Client struct {
	cfg   config.ChainalysisConfig
	rest  *rest.Client
	cache *rediscache.Cache
	log   *logger.Logger
}

// NewClient creates a sanctions checker. cache may be nil.
func NewClient(cfg config.ChainalysisConfig, cache *rediscache.Cache) *Client {
	headers := map[string]string{"X-API-Key": cfg.APIKey}
	return &Client{
		cfg:   cfg,
		rest:  rest.NewClient("chainalysis", cfg.BaseURL, headers, cfg.Timeout),
		cache: cache,
		log:   logger.Default().With("upstream", "chainalysis"),
	}
}

type screeningResponse struct {
	Identifications []struct {
		Category    string `json:"category"`
		Name        string `json:"name"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"identifications"`
}

// Check returns the sanctions verdict for an address. The verdict is
// authoritative when the lookup succeeds; on any failure it degrades to
// a negative verdict marked Degraded rather than failing the run.
func (c *Client) Check(ctx context.Context, address string) domain.SanctionsVerdict {
	var cached domain.SanctionsVerdict
	if c.cache.Get(ctx, "sanctions", address, &cached) {
		return cached
	}

	body, err := c.rest.Get(ctx, "/api/v1/address/"+address, nil)
	if err != nil {
		c.log.Warn("sanctions lookup degraded to negative verdict",
			"address", address, "degraded", true, "error", err)
		metrics.UpstreamRequestsTotal.WithLabelValues("chainalysis", "error").Inc()
		metrics.DegradedLookupsTotal.WithLabelValues("chainalysis").Inc()
		return domain.SanctionsVerdict{Degraded: true}
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("chainalysis", "ok").Inc()

	var resp screeningResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warn("sanctions response unparsable, degraded to negative verdict",
			"address", address, "degraded", true, "error", err)
		metrics.DegradedLookupsTotal.WithLabelValues("chainalysis").Inc()
		return domain.SanctionsVerdict{Degraded: true}
	}

	verdict := domain.SanctionsVerdict{Sanctioned: len(resp.Identifications) > 0}
	for _, id := range resp.Identifications {
		verdict.Evidence = append(verdict.Evidence, domain.SanctionsListing{
			Category:    id.Category,
			Name:        id.Name,
			Description: id.Description,
			URL:         id.URL,
		})
	}

	// Degraded verdicts are never cached; clean and listed ones are.
	c.cache.Set(ctx, "sanctions", address, verdict, c.cfg.CacheTTL)
	return verdict
}
