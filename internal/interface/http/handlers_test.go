package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse-hub/codepulse-stats/internal/application/query"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/shared"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
)

// memoryRepo is an in-memory stats.Repository for handler tests.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]*stats.PlatformStats
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*stats.PlatformStats)}
}

func repoKey(userID uuid.UUID, platform stats.Platform) string {
	return userID.String() + "/" + platform.String()
}

func (r *memoryRepo) Find(ctx context.Context, userID uuid.UUID, platform stats.Platform) (*stats.PlatformStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[repoKey(userID, platform)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memoryRepo) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]*stats.PlatformStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*stats.PlatformStats
	for _, row := range r.rows {
		if row.UserID == userID {
			copied := *row
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memoryRepo) UpsertSnapshot(ctx context.Context, userID uuid.UUID, platform stats.Platform, snap *stats.Snapshot) (*stats.PlatformStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	row, ok := r.rows[repoKey(userID, platform)]
	if !ok {
		row = &stats.PlatformStats{ID: uuid.New(), UserID: userID, Platform: platform, CreatedAt: now}
		r.rows[repoKey(userID, platform)] = row
	}
	row.Rating = snap.Rating
	row.Rank = snap.Rank
	row.SolvedCount = snap.SolvedCount
	row.Difficulty = snap.Difficulty
	row.Status = stats.StatusSuccess
	row.ErrorMessage = ""
	row.LastUpdated = &now
	row.UpdatedAt = now
	copied := *row
	return &copied, nil
}

func (r *memoryRepo) MarkFailed(ctx context.Context, userID uuid.UUID, platform stats.Platform, message string) (*stats.PlatformStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	row, ok := r.rows[repoKey(userID, platform)]
	if !ok {
		row = &stats.PlatformStats{ID: uuid.New(), UserID: userID, Platform: platform, CreatedAt: now}
		r.rows[repoKey(userID, platform)] = row
	}
	row.Status = stats.StatusFailed
	row.ErrorMessage = message
	row.UpdatedAt = now
	copied := *row
	return &copied, nil
}

// stubSource is a canned upstream for handler tests.
type stubSource struct {
	platform stats.Platform
	snapshot *stats.Snapshot
	err      error
}

func (s *stubSource) Platform() stats.Platform {
	return s.platform
}

func (s *stubSource) FetchSnapshot(ctx context.Context, handle string) (*stats.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func newTestServer(t *testing.T, repo stats.Repository, source query.UpstreamSource) *Server {
	t.Helper()

	deps := Dependencies{
		DashboardHandler: query.NewGetDashboardHandler(repo, nil, nil),
	}
	if source != nil {
		deps.StatsHandlers = map[stats.Platform]*query.GetPlatformStatsHandler{
			source.Platform(): query.NewGetPlatformStatsHandler(repo, source, query.GetPlatformStatsHandlerConfig{}),
		}
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerSecond = 0 // no limiter in tests

	return NewServer(cfg, deps)
}

func doRequest(s *Server, method, target string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	s.buildMiddlewareChain(s.router).ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth_DefaultResponse(t *testing.T) {
	server := newTestServer(t, newMemoryRepo(), nil)

	rec := doRequest(server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestGetPlatformStats_RequiresUserHeader(t *testing.T) {
	server := newTestServer(t, newMemoryRepo(), &stubSource{platform: stats.PlatformCodeforces})

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codeforces?handle=tourist", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_user", resp.Error.Code)
}

func TestGetPlatformStats_RejectsUnknownPlatform(t *testing.T) {
	server := newTestServer(t, newMemoryRepo(), &stubSource{platform: stats.PlatformCodeforces})

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/topcoder?handle=x", uuid.NewString())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlatformStats_UnconfiguredPlatformIs404(t *testing.T) {
	server := newTestServer(t, newMemoryRepo(), &stubSource{platform: stats.PlatformCodeforces})

	// codechef is a valid platform name but has no handler wired
	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codechef?handle=x", uuid.NewString())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlatformStats_ReturnsSnapshot(t *testing.T) {
	source := &stubSource{
		platform: stats.PlatformCodeforces,
		snapshot: &stats.Snapshot{
			Rating:      1700,
			Rank:        "expert",
			SolvedCount: 42,
			Difficulty:  stats.DifficultySplit{Easy: 20, Medium: 15, Hard: 7},
			RecentSolved: []stats.RecentSolved{
				{Title: "Watermelon", URL: "https://codeforces.com/problemset/problem/4/A"},
			},
		},
	}
	server := newTestServer(t, newMemoryRepo(), source)

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codeforces?handle=tourist", uuid.NewString())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    platformStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "codeforces", resp.Data.Platform)
	assert.Equal(t, 1700, resp.Data.Rating)
	assert.Equal(t, 42, resp.Data.SolvedCount)
	assert.Len(t, resp.Data.RecentSolved, 1)
	require.NotNil(t, resp.Data.LastUpdated)
}

func TestGetPlatformStats_MissingHandleIs400(t *testing.T) {
	server := newTestServer(t, newMemoryRepo(), &stubSource{platform: stats.PlatformCodeforces})

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codeforces", uuid.NewString())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlatformStats_UnknownHandleIs404(t *testing.T) {
	source := &stubSource{
		platform: stats.PlatformCodeforces,
		err:      shared.NewDomainError("codeforces", "FetchSnapshot", shared.ErrInvalidHandle, "handle not found"),
	}
	server := newTestServer(t, newMemoryRepo(), source)

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codeforces?handle=nobody", uuid.NewString())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "handle_not_found", resp.Error.Code)
}

func TestGetPlatformStats_UpstreamDownIs502(t *testing.T) {
	source := &stubSource{
		platform: stats.PlatformCodeforces,
		err:      shared.NewDomainError("codeforces", "FetchSnapshot", shared.ErrUpstreamUnavailable, "request failed"),
	}
	server := newTestServer(t, newMemoryRepo(), source)

	rec := doRequest(server, http.MethodGet, "/api/v1/stats/codeforces?handle=tourist", uuid.NewString())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetDashboard_RollsUpStoredRows(t *testing.T) {
	repo := newMemoryRepo()
	userID := uuid.New()
	_, err := repo.UpsertSnapshot(context.Background(), userID, stats.PlatformCodeforces, &stats.Snapshot{
		SolvedCount: 40,
		Difficulty:  stats.DifficultySplit{Easy: 20, Medium: 15, Hard: 5},
	})
	require.NoError(t, err)
	_, err = repo.UpsertSnapshot(context.Background(), userID, stats.PlatformLeetCode, &stats.Snapshot{
		SolvedCount: 60,
		Difficulty:  stats.DifficultySplit{Easy: 30, Medium: 20, Hard: 10},
	})
	require.NoError(t, err)

	server := newTestServer(t, repo, nil)

	rec := doRequest(server, http.MethodGet, "/api/v1/dashboard", userID.String())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data query.DashboardResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Data.TotalSolved)
	assert.Len(t, resp.Data.Platforms, 2)
}
