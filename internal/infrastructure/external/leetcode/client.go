package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
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

// ClientConfig contains configuration for the LeetCode GraphQL client.
type ClientConfig struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string

	// Referer header value; LeetCode rejects requests without it.
	Referer string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RequestsPerSecond limits the client-side request rate.
	RequestsPerSecond float64

	// RecentLimit is how many recent accepted submissions to request.
	RecentLimit int

	// Retry options for transient failures.
	Retry []retry.Option

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables request-level logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoint:          "https://leetcode.com/graphql",
		Referer:           "https://leetcode.com",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 2,
		RecentLimit:       stats.RecentSolvedLimit,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// errSchemaMismatch marks a GraphQL schema rejection of the canonical
// question-progress query. It triggers the legacy-shape fallback and never
// leaves this package.
var errSchemaMismatch = errors.New("leetcode: schema rejected query")

// Client is the LeetCode GraphQL client. It implements query.UpstreamSource.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	mapper     *Mapper
}

// NewClient creates a new LeetCode GraphQL client.
func NewClient(config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Referer == "" {
		config.Referer = defaults.Referer
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = defaults.RecentLimit
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
		breaker: circuitbreaker.New("leetcode",
			circuitbreaker.WithIsFailure(func(err error) bool {
				return !errors.Is(err, shared.ErrInvalidHandle) &&
					!errors.Is(err, errSchemaMismatch)
			}),
		),
		mapper: NewMapper(),
	}
}

// Platform identifies which platform this client serves.
func (c *Client) Platform() stats.Platform {
	return stats.PlatformLeetCode
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT FETCH
// ══════════════════════════════════════════════════════════════════════════════

// FetchSnapshot fetches a username's solved statistics and normalizes them.
// The canonical question-progress contract is tried first; when the schema
// rejects it the legacy getUserProfile bundle is used instead.
func (c *Client) FetchSnapshot(ctx context.Context, username string) (*stats.Snapshot, error) {
	contest, err := c.getContestRanking(ctx, username)
	if err != nil {
		return nil, err
	}

	progress, err := c.getQuestionProgress(ctx, username)
	if errors.Is(err, errSchemaMismatch) {
		c.logger.Warn("leetcode progress query rejected, falling back to legacy profile",
			"username", username)
		return c.fetchLegacySnapshot(ctx, username, contest)
	}
	if err != nil {
		return nil, err
	}

	recent, err := c.getRecentAccepted(ctx, username)
	if err != nil {
		return nil, err
	}

	return c.mapper.SnapshotFromProgress(progress, contest, recent), nil
}

// fetchLegacySnapshot serves the deprecated schema shape.
func (c *Client) fetchLegacySnapshot(ctx context.Context, username string, contest *ContestRankingDTO) (*stats.Snapshot, error) {
	var profile LegacyProfileDTO
	if err := c.doQuery(ctx, legacyUserProfileQuery, map[string]any{"username": username}, &profile); err != nil {
		return nil, fmt.Errorf("legacy profile %s: %w", username, err)
	}
	if profile.MatchedUser == nil {
		return nil, shared.NewDomainError("leetcode", "FetchSnapshot",
			shared.ErrInvalidHandle, "no such user: "+username)
	}

	return c.mapper.SnapshotFromLegacy(&profile, contest), nil
}

// getQuestionProgress fetches per-difficulty accepted-question counts.
func (c *Client) getQuestionProgress(ctx context.Context, username string) (*QuestionProgressDTO, error) {
	var progress QuestionProgressDTO
	if err := c.doQuery(ctx, questionProgressQuery, map[string]any{"userSlug": username}, &progress); err != nil {
		return nil, fmt.Errorf("question progress %s: %w", username, err)
	}
	if progress.Progress == nil {
		return nil, shared.NewDomainError("leetcode", "GetQuestionProgress",
			shared.ErrInvalidHandle, "no such user: "+username)
	}

	return &progress, nil
}

// getContestRanking fetches the contest rating. Users who never attended a
// contest come back nil, which maps to zero rating.
func (c *Client) getContestRanking(ctx context.Context, username string) (*ContestRankingDTO, error) {
	var contest ContestRankingDTO
	if err := c.doQuery(ctx, contestRankingQuery, map[string]any{"username": username}, &contest); err != nil {
		return nil, fmt.Errorf("contest ranking %s: %w", username, err)
	}

	return &contest, nil
}

// getRecentAccepted fetches the most recent accepted submissions.
func (c *Client) getRecentAccepted(ctx context.Context, username string) (*RecentAcListDTO, error) {
	vars := map[string]any{"username": username, "limit": c.config.RecentLimit}

	var recent RecentAcListDTO
	if err := c.doQuery(ctx, recentAcSubmissionsQuery, vars, &recent); err != nil {
		return nil, fmt.Errorf("recent accepted %s: %w", username, err)
	}

	return &recent, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GRAPHQL TRANSPORT
// ══════════════════════════════════════════════════════════════════════════════

// doQuery executes a GraphQL query with rate limiting, circuit breaking and
// retries, and unmarshals the data payload into result.
func (c *Client) doQuery(ctx context.Context, query string, vars map[string]any, result any) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.doSingleQuery(ctx, query, vars, result)
		})
	})
}

// doSingleQuery performs one GraphQL POST and classifies failures.
func (c *Client) doSingleQuery(ctx context.Context, query string, vars map[string]any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.config.Referer)

	if c.config.Debug {
		c.logger.Debug("leetcode graphql request", "endpoint", c.config.Endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(shared.WrapError("leetcode", "Query",
			shared.ErrUpstreamUnavailable, "http request failed", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(shared.WrapError("leetcode", "Query",
			shared.ErrUpstreamUnavailable, "read response", err))
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return retry.Retryable(shared.NewDomainError("leetcode", "Query",
			shared.ErrUpstreamUnavailable,
			fmt.Sprintf("graphql endpoint returned status %d", resp.StatusCode)))
	}
	if resp.StatusCode != http.StatusOK {
		return retry.Permanent(shared.NewDomainError("leetcode", "Query",
			shared.ErrUpstreamUnavailable,
			fmt.Sprintf("graphql endpoint returned status %d", resp.StatusCode)))
	}

	var env graphqlResponse
	if err := json.Unmarshal(respBody, &env); err != nil {
		return retry.Permanent(shared.WrapError("leetcode", "Query",
			shared.ErrUpstreamMalformed, "decode envelope", err))
	}

	if len(env.Errors) > 0 {
		return retry.Permanent(classifyGraphQLErrors(env.Errors))
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return retry.Permanent(shared.WrapError("leetcode", "Query",
				shared.ErrUpstreamMalformed, "decode data", err))
		}
	}

	return nil
}

// classifyGraphQLErrors maps the errors array to an error kind. Schema
// rejections sentinel the legacy fallback; "does not exist" means the
// username is unknown; anything else is a malformed-contract failure.
func classifyGraphQLErrors(errs []graphqlError) error {
	for _, e := range errs {
		msg := strings.ToLower(e.Message)
		if strings.Contains(msg, "cannot query field") || strings.Contains(msg, "unknown field") {
			return errSchemaMismatch
		}
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "user matching query") {
			return shared.NewDomainError("leetcode", "Query", shared.ErrInvalidHandle, e.Message)
		}
	}
	return shared.NewDomainError("leetcode", "Query", shared.ErrUpstreamMalformed, errs[0].Message)
}
