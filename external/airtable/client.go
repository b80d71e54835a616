package airtable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/platform/logging"
	"github.com/borderville/season-stats/internal/platform/resilience"
	"github.com/borderville/season-stats/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.airtable.com/v0"
	defaultPageSize = 100
	// Airtable rate-limits to 5 req/s per base; a short pause between
	// pages keeps long fetches polite.
	defaultPageDelay = 250 * time.Millisecond
)

var bearerHeaderRegex = regexp.MustCompile(`(?i)bearer\s+\S+`)
var errAirtableTransient = crerr.New("airtable transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	BaseID         string
	PlayersTable   string
	MatchesTable   string
	GoalsTable     string
	PageSize       int
	PageDelay      time.Duration
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches whole tables from the Airtable-style record store. It
// satisfies usecase.RecordSource.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	baseID         string
	playersTable   string
	matchesTable   string
	goalsTable     string
	pageSize       int
	pageDelay      time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	pageDelay := cfg.PageDelay
	if pageDelay < 0 {
		pageDelay = defaultPageDelay
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		baseID:         strings.TrimSpace(cfg.BaseID),
		playersTable:   strings.TrimSpace(cfg.PlayersTable),
		matchesTable:   strings.TrimSpace(cfg.MatchesTable),
		goalsTable:     strings.TrimSpace(cfg.GoalsTable),
		pageSize:       pageSize,
		pageDelay:      pageDelay,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchPlayers(ctx context.Context) ([]record.Record, error) {
	return c.fetchTable(ctx, c.playersTable)
}

func (c *Client) FetchMatches(ctx context.Context) ([]record.Record, error) {
	return c.fetchTable(ctx, c.matchesTable)
}

func (c *Client) FetchGoals(ctx context.Context) ([]record.Record, error) {
	return c.fetchTable(ctx, c.goalsTable)
}

type listEnvelope struct {
	Records []record.Record `json:"records"`
	Offset  string          `json:"offset"`
}

// fetchTable walks the offset cursor until the store stops returning one,
// collecting every record of the table.
func (c *Client) fetchTable(ctx context.Context, table string) ([]record.Record, error) {
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}

	out := make([]record.Record, 0, c.pageSize)
	offset := ""
	for {
		page, err := c.fetchPage(ctx, table, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch table %s: %w", table, err)
		}
		out = append(out, page.Records...)

		if page.Offset == "" {
			break
		}
		offset = page.Offset

		if c.pageDelay > 0 {
			timer := time.NewTimer(c.pageDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	c.logger.DebugContext(ctx, "table fetched", "table", table, "records", len(out))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, table, offset string) (listEnvelope, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "airtable circuit breaker rejected request", "state", c.breaker.State())
			return listEnvelope{}, fmt.Errorf("%w: record store is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	values.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	if offset != "" {
		values.Set("offset", offset)
	}
	fullURL := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(table), values.Encode())

	key := table + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errAirtableTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return listEnvelope{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return listEnvelope{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	var envelope listEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return listEnvelope{}, fmt.Errorf("decode store payload: %w", err)
	}
	return envelope, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAirtableTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAirtableTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: store status=%d body=%s", errAirtableTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("store status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("store request failed")
	}
	c.logger.WarnContext(ctx, "airtable request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerHeaderRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
