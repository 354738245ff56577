// Package http implements the REST API for CodePulse platform statistics.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/codepulse-hub/codepulse-stats/internal/application/query"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/shared"
	"github.com/codepulse-hub/codepulse-stats/internal/domain/stats"
	"github.com/codepulse-hub/codepulse-stats/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker reports the health of downstream dependencies.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthStatus is the aggregated health report.
type HealthStatus struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components,omitempty"`
}

// HealthCheckerFunc adapts a function to the HealthChecker interface.
type HealthCheckerFunc func(ctx context.Context) HealthStatus

// Check implements HealthChecker.
func (f HealthCheckerFunc) Check(ctx context.Context) HealthStatus {
	return f(ctx)
}

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "CodePulse Stats API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":    "/health",
			"stats":     "/api/v1/stats/{platform}",
			"dashboard": "/api/v1/dashboard",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// platformStatsResponse is the wire shape of a stats read.
type platformStatsResponse struct {
	Platform     string                `json:"platform"`
	Rating       int                   `json:"rating"`
	Rank         string                `json:"rank"`
	SolvedCount  int                   `json:"solved_count"`
	Difficulty   stats.DifficultySplit `json:"difficulty"`
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	LastUpdated  *time.Time            `json:"last_updated"`
	RecentSolved []stats.RecentSolved  `json:"recent_solved"`
}

func newPlatformStatsResponse(result *query.PlatformStatsResult) platformStatsResponse {
	row := result.Stats
	recent := result.RecentSolved
	if recent == nil {
		recent = []stats.RecentSolved{}
	}
	return platformStatsResponse{
		Platform:     row.Platform.String(),
		Rating:       row.Rating,
		Rank:         row.Rank,
		SolvedCount:  row.SolvedCount,
		Difficulty:   row.Difficulty,
		Status:       string(row.Status),
		ErrorMessage: row.ErrorMessage,
		LastUpdated:  row.LastUpdated,
		RecentSolved: recent,
	}
}

// handleGetPlatformStats handles GET /api/v1/stats/{platform}.
//
// Query parameters:
//   - handle: the user's identifier on the platform (required)
//   - refresh: bypass the freshness window and refetch
func (s *Server) handleGetPlatformStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}

	platform, ok := stats.ParsePlatform(r.PathValue("platform"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_platform", "Unknown platform")
		return
	}

	handler, ok := s.deps.StatsHandlers[platform]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "platform_not_supported", "Platform is not supported yet")
		return
	}

	q := query.GetPlatformStatsQuery{
		UserID:       userID,
		Handle:       stats.Handle(r.URL.Query().Get("handle")),
		ForceRefresh: getQueryParamBool(r, "refresh"),
	}

	result, err := handler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPlatformStatsResponse(result))
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDashboard handles GET /api/v1/dashboard.
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}

	if s.deps.DashboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}

	result, err := s.deps.DashboardHandler.Handle(r.Context(), query.GetDashboardQuery{UserID: userID})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// userIDFromRequest extracts the authenticated user from the X-User-ID
// header. Authentication itself happens upstream at the API gateway; this
// service trusts the forwarded identity.
func (s *Server) userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		writeJSONError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_user", "X-User-ID header must be a UUID")
		return uuid.Nil, false
	}

	return userID, true
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, shared.ErrInvalidHandle):
		writeJSONError(w, http.StatusNotFound, "handle_not_found", "Handle does not exist on the platform")

	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "No statistics found")

	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		w.Header().Set("Retry-After", "30")
		writeJSONError(w, http.StatusServiceUnavailable, "upstream_suspended", "Upstream platform temporarily suspended")

	case errors.Is(err, shared.ErrUpstreamUnavailable), errors.Is(err, shared.ErrUpstreamMalformed):
		writeJSONError(w, http.StatusBadGateway, "upstream_error", "Upstream platform request failed")

	default:
		s.logger.Error("unhandled request error",
			"error", err,
			"path", r.URL.Path,
			"request_id", getRequestID(r.Context()),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
