package handler

import (
	"context"
	"net/http"
	"time"

	"sih-portal/internal/repository"
	"sih-portal/pkg/logger"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler handles health check requests
type HealthHandler struct {
	store  repository.Pinger
	cache  repository.Pinger
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil when
// Redis is not configured.
func NewHealthHandler(store, cache repository.Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		cache:  cache,
		logger: log,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "sih-portal",
		Checks:    map[string]string{},
	}
	status := http.StatusOK

	if err := h.store.Health(ctx); err != nil {
		h.logger.WithError(err).Warn("Store health check failed")
		response.Checks["store"] = "unreachable"
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		response.Checks["store"] = "ok"
	}

	// Redis only backs the membership guard, which fails open
	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			response.Checks["redis"] = "unreachable"
			if status == http.StatusOK {
				response.Status = "degraded"
			}
		} else {
			response.Checks["redis"] = "ok"
		}
	}

	respondJSON(w, status, response)
}
