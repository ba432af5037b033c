package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service TrendServiceInterface
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service TrendServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.started).String(),
	})
}

// ReadinessCheck handles GET /api/health/ready. The server is ready
// once the trend table is loaded and serving.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	sum := h.service.Summary(r.Context())
	if sum.Rows == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{"status": "not ready"})
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":    "ready",
		"rows":      sum.Rows,
		"source":    sum.Source,
		"loaded_at": sum.LoadedAt,
	})
}

// GetVersion handles GET /api/version
func (h *HealthHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version":    Version,
		"build_time": BuildTime,
	})
}
