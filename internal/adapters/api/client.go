package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/crow-router/crow/internal/adapters/metrics"
	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/internal/infrastructure/config"
)

const (
	endpointSystem = "system"
	endpointNearby = "nearby"
	endpointRefuel = "refuel"
)

// ArdentClient implements system.DirectoryClient against the Ardent Insight system API
type ArdentClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	logger      logging.Logger
}

// NewArdentClient creates a client with default settings
func NewArdentClient() *ArdentClient {
	cfg := config.DefaultConfig()
	return NewArdentClientWithConfig(cfg.Directory, nil, nil)
}

// NewArdentClientWithConfig creates a client from directory configuration.
// If clock is nil, uses RealClock; if logger is nil, logging is discarded.
func NewArdentClientWithConfig(cfg config.DirectoryConfig, clock shared.Clock, logger logging.Logger) *ArdentClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}
	return &ArdentClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		breaker:     NewCircuitBreaker(cfg.CircuitBreaker.MaxFailures, cfg.CircuitBreaker.Timeout, clock),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:  cfg.Retry.MaxAttempts,
		backoffBase: cfg.Retry.BackoffBase,
		clock:       clock,
		logger:      logger,
	}
}

var _ system.DirectoryClient = (*ArdentClient)(nil)

// GetCoordinate resolves a system position
func (c *ArdentClient) GetCoordinate(ctx context.Context, name string) (shared.Coordinate, error) {
	path := "/" + url.PathEscape(name)

	var response struct {
		SystemName string   `json:"systemName"`
		SystemX    *float64 `json:"systemX"`
		SystemY    *float64 `json:"systemY"`
		SystemZ    *float64 `json:"systemZ"`
	}

	if err := c.get(ctx, endpointSystem, path, &response); err != nil {
		return shared.Coordinate{}, c.classify(name, err)
	}

	if response.SystemX == nil || response.SystemY == nil || response.SystemZ == nil {
		return shared.Coordinate{}, shared.NewUnresolvableSystemError(name, "response is missing coordinate fields")
	}

	return shared.NewCoordinate(*response.SystemX, *response.SystemY, *response.SystemZ), nil
}

// ListNearby returns systems the service reports within maxDistance
func (c *ArdentClient) ListNearby(ctx context.Context, name string, maxDistance float64) ([]system.SystemRecord, error) {
	path := fmt.Sprintf("/%s/nearby?maxDistance=%.4f", url.PathEscape(name), maxDistance)

	var response []struct {
		SystemName string   `json:"systemName"`
		SystemX    *float64 `json:"systemX"`
		SystemY    *float64 `json:"systemY"`
		SystemZ    *float64 `json:"systemZ"`
		Distance   *float64 `json:"distance"`
	}

	if err := c.get(ctx, endpointNearby, path, &response); err != nil {
		return nil, c.classify(name, err)
	}

	records := make([]system.SystemRecord, 0, len(response))
	for _, r := range response {
		if r.SystemName == "" {
			continue
		}
		records = append(records, system.SystemRecord{
			Name:     r.SystemName,
			X:        r.SystemX,
			Y:        r.SystemY,
			Z:        r.SystemZ,
			Distance: r.Distance,
		})
	}

	return records, nil
}

// ListRefuelCandidates returns the nearest stations that sell fuel, ranked by the service
func (c *ArdentClient) ListRefuelCandidates(ctx context.Context, name string) ([]system.CandidateRecord, error) {
	path := fmt.Sprintf("/%s/nearest/refuel", url.PathEscape(name))

	var response []struct {
		SystemName  string  `json:"systemName"`
		StationName string  `json:"stationName"`
		StationType string  `json:"stationType"`
		Distance    float64 `json:"distance"`
	}

	if err := c.get(ctx, endpointRefuel, path, &response); err != nil {
		return nil, c.classify(name, err)
	}

	candidates := make([]system.CandidateRecord, 0, len(response))
	for _, r := range response {
		if r.SystemName == "" {
			continue
		}
		candidates = append(candidates, system.CandidateRecord{
			SystemName:  r.SystemName,
			StationName: r.StationName,
			StationType: r.StationType,
			Distance:    r.Distance,
		})
	}

	return candidates, nil
}

// BreakerState exposes the circuit breaker state for health output
func (c *ArdentClient) BreakerState() CircuitState {
	return c.breaker.GetState()
}

// classify maps transport failures onto the domain error kinds
func (c *ArdentClient) classify(name string, err error) error {
	var status *statusError
	if errors.As(err, &status) && status.code == http.StatusNotFound {
		return shared.NewUnresolvableSystemError(name, "system not found in directory")
	}
	return shared.NewTransientFetchError(name, err)
}

// get performs a GET with circuit breaking, rate limiting and exponential backoff retries.
// Definitive client errors (4xx other than 429) do not count against the breaker.
func (c *ArdentClient) get(ctx context.Context, endpoint, path string, result interface{}) error {
	var definitive error

	err := c.breaker.Call(func() error {
		start := c.clock.Now()
		err := c.request(ctx, path, result)
		metrics.RecordDirectoryRequest(endpoint, requestOutcome(err), c.clock.Now().Sub(start).Seconds())

		var status *statusError
		if errors.As(err, &status) && !status.retryable() {
			definitive = err
			return nil
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			c.logger.Log("WARNING", "directory circuit breaker open, skipping request", map[string]interface{}{
				"endpoint": endpoint,
				"path":     path,
			})
		}
		return err
	}
	return definitive
}

func (c *ArdentClient) request(ctx context.Context, path string, result interface{}) error {
	target := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			lastErr = &retryableError{message: fmt.Errorf("network error: %w", err).Error()}
			if !c.backoff(ctx, attempt, 0) {
				return exhausted(lastErr)
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &retryableError{message: fmt.Sprintf("failed to read response: %v", readErr)}
			if !c.backoff(ctx, attempt, 0) {
				return exhausted(lastErr)
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = &statusError{code: resp.StatusCode, body: "rate limited (429)"}
			c.logger.Log("DEBUG", "directory rate limited", map[string]interface{}{
				"attempt":     attempt,
				"retry_after": retryAfter.String(),
			})
			if !c.backoff(ctx, attempt, retryAfter) {
				return exhausted(lastErr)
			}
			continue

		case resp.StatusCode >= 500:
			lastErr = &statusError{code: resp.StatusCode, body: truncate(string(body))}
			if !c.backoff(ctx, attempt, 0) {
				return exhausted(lastErr)
			}
			continue

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return &statusError{code: resp.StatusCode, body: truncate(string(body))}
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}

	return exhausted(lastErr)
}

func exhausted(lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return fmt.Errorf("max retries exceeded")
}

// backoff sleeps before the next attempt. Returns false when no attempt is left
// or the context is done.
func (c *ArdentClient) backoff(ctx context.Context, attempt int, retryAfter time.Duration) bool {
	if attempt >= c.maxRetries {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
	if retryAfter > 0 {
		delay = retryAfter
	}
	c.clock.Sleep(delay)
	return true
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func requestOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var status *statusError
	if errors.As(err, &status) {
		return strconv.Itoa(status.code)
	}
	return "error"
}

func truncate(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
