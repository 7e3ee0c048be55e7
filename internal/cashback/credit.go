package cashback

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"cashback-backend/internal/common/config"
	apperrors "cashback-backend/internal/common/errors"
	commonhttp "cashback-backend/internal/common/http"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/common/metrics"
	"cashback-backend/internal/cpf"
)

// CreditResponse carries the upstream reply unchanged: the proxy never
// rewrites the third-party status or body.
type CreditResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// CreditClient looks up a dealer's accumulated cashback credit at the
// third-party service. Successful responses are cached in Redis for a short
// TTL; the cache is optional and skipped when nil.
type CreditClient struct {
	baseURL  string
	header   string
	token    string
	client   *commonhttp.Client
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewCreditClient(cfg config.CreditAPIConfig, cache *redis.Client, log logger.Logger) *CreditClient {
	return &CreditClient{
		baseURL:  cfg.BaseURL,
		header:   cfg.Header,
		token:    cfg.Token,
		client:   commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		cache:    cache,
		cacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		logger:   log.WithFields(map[string]interface{}{"client": "cashback-credit"}),
	}
}

func cacheKey(id string) string { return "cashback:credit:" + id }

// Lookup validates the identifier, then fetches the credit balance. The
// upstream status and body are returned as-is, including non-2xx replies.
func (c *CreditClient) Lookup(ctx context.Context, rawCPF string) (*CreditResponse, error) {
	id := cpf.Normalize(rawCPF)
	if !cpf.IsValid(id) {
		return nil, apperrors.Validation("invalid identifier")
	}

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey(id)).Bytes(); err == nil {
			metrics.CreditLookups.WithLabelValues("cache_hit").Inc()
			return &CreditResponse{StatusCode: http.StatusOK, ContentType: "application/json", Body: cached}, nil
		}
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, apperrors.Internal("failed to build credit request", err)
	}
	q := url.Values{}
	q.Set("cpf", id)
	req.URL.RawQuery = q.Encode()
	if c.header != "" {
		req.Header.Set(c.header, c.token)
	}

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		metrics.CreditLookups.WithLabelValues("error").Inc()
		return nil, apperrors.Upstream(http.StatusBadGateway, "cashback credit service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CreditLookups.WithLabelValues("error").Inc()
		return nil, apperrors.Upstream(http.StatusBadGateway, "failed to read credit response")
	}

	if resp.StatusCode == http.StatusOK && c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey(id), body, c.cacheTTL).Err(); err != nil {
			c.logger.Warn("failed to cache credit response", map[string]interface{}{"error": err.Error()})
		}
	}

	metrics.CreditLookups.WithLabelValues("upstream").Inc()
	return &CreditResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
