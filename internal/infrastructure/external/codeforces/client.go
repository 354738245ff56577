package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codepulse-hub/codepulse-stats/internal/domain/shared"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
	"github.com/codepulse-hub/codepulse-stats/pkg/circuitbreaker"
	"github.com/codepulse-hub/codepulse-stats/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Codeforces API client.
type ClientConfig struct {
	// BaseURL is the API base URL.
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RequestsPerSecond limits the client-side request rate. Codeforces
	// throttles aggressively, so the default stays well under their limit.
	RequestsPerSecond float64

	// RetryConfig for transient failures.
	Retry []retry.Option

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables request-level logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           "https://codeforces.com/api",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 0.5,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Codeforces API client. It implements query.UpstreamSource.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	mapper     *Mapper
}

// NewClient creates a new Codeforces API client.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultClientConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultClientConfig().RequestsPerSecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     config.Logger,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		retrier:    retry.New(config.Retry...),
		breaker: circuitbreaker.New("codeforces",
			// An unknown handle is the caller's problem, not an outage.
			circuitbreaker.WithIsFailure(func(err error) bool {
				return !errors.Is(err, shared.ErrInvalidHandle)
			}),
		),
		mapper: NewMapper(),
	}
}

// Platform identifies which platform this client serves.
func (c *Client) Platform() stats.Platform {
	return stats.PlatformCodeforces
}

// ══════════════════════════════════════════════════════════════════════════════
// API OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetUserInfo fetches the profile for a handle via user.info.
func (c *Client) GetUserInfo(ctx context.Context, handle string) (*UserInfoDTO, error) {
	params := url.Values{}
	params.Set("handles", handle)

	var users []UserInfoDTO
	if err := c.doRequest(ctx, "/user.info", params, &users); err != nil {
		return nil, fmt.Errorf("get user info %s: %w", handle, err)
	}
	if len(users) == 0 {
		return nil, shared.WrapError("codeforces", "GetUserInfo", shared.ErrUpstreamMalformed,
			"user.info returned an empty result", nil)
	}

	return &users[0], nil
}

// GetSubmissions fetches the full submission history for a handle via
// user.status, newest first.
func (c *Client) GetSubmissions(ctx context.Context, handle string) ([]SubmissionDTO, error) {
	params := url.Values{}
	params.Set("handle", handle)
	params.Set("from", "1")

	var submissions []SubmissionDTO
	if err := c.doRequest(ctx, "/user.status", params, &submissions); err != nil {
		return nil, fmt.Errorf("get submissions %s: %w", handle, err)
	}

	return submissions, nil
}

// FetchSnapshot fetches profile and submissions for a handle and normalizes
// them into a statistics snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, handle string) (*stats.Snapshot, error) {
	user, err := c.GetUserInfo(ctx, handle)
	if err != nil {
		return nil, err
	}

	submissions, err := c.GetSubmissions(ctx, handle)
	if err != nil {
		return nil, err
	}

	return c.mapper.Snapshot(user, submissions), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs a GET against the API with rate limiting, circuit
// breaking and retries, and unmarshals the envelope's result into result.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.doSingleRequest(ctx, path, params, result)
		})
	})
}

// doSingleRequest performs one HTTP request and classifies failures into the
// shared upstream error kinds. Retryable failures are wrapped for the retrier.
func (c *Client) doSingleRequest(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := c.config.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("codeforces api request", "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(shared.WrapError("codeforces", "Request",
			shared.ErrUpstreamUnavailable, "http request failed", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(shared.WrapError("codeforces", "Request",
			shared.ErrUpstreamUnavailable, "read response", err))
	}

	var env apiEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		// 5xx responses often carry an HTML error page instead of JSON.
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return retry.Retryable(shared.NewDomainError("codeforces", "Request",
				shared.ErrUpstreamUnavailable,
				fmt.Sprintf("api returned status %d", resp.StatusCode)))
		}
		return retry.Permanent(shared.WrapError("codeforces", "Request",
			shared.ErrUpstreamMalformed, "decode envelope", err))
	}

	if env.Status != statusOK {
		if isHandleNotFound(env.Comment) {
			return retry.Permanent(shared.NewDomainError("codeforces", "Request",
				shared.ErrInvalidHandle, env.Comment))
		}
		if resp.StatusCode >= 500 {
			return retry.Retryable(shared.NewDomainError("codeforces", "Request",
				shared.ErrUpstreamUnavailable, env.Comment))
		}
		return retry.Permanent(shared.NewDomainError("codeforces", "Request",
			shared.ErrUpstreamUnavailable, env.Comment))
	}

	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return retry.Permanent(shared.WrapError("codeforces", "Request",
				shared.ErrUpstreamMalformed, "decode result", err))
		}
	}

	return nil
}

// isHandleNotFound detects the user.info/user.status comment for an unknown
// handle, e.g. `handles: User with handle tourist_ not found`.
func isHandleNotFound(comment string) bool {
	return strings.Contains(strings.ToLower(comment), "not found")
}
