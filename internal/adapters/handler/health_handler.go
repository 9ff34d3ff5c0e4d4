package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is satisfied by the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	redisClient redis.Cmdable
	startTime   time.Time
	version     string
	logger      *zap.Logger
}

// NewHealthHandler builds the probe handler. redisClient may be nil when rate
// limiting is disabled; it is then left out of readiness.
func NewHealthHandler(db Pinger, redisClient redis.Cmdable, version string, logger *zap.Logger) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		startTime:   time.Now(),
		version:     version,
		logger:      logger,
	}
}

// HealthResponse follows Kubernetes health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a liveness check: the process is up and serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports whether the dependencies needed to serve traffic respond.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{"database": h.checkDatabase(r.Context())}
	if h.redisClient != nil {
		checks["redis"] = h.checkRedis(r.Context())
	}

	status, httpStatus := "UP", http.StatusOK
	for name, c := range checks {
		if c.Status != "UP" {
			status, httpStatus = "DOWN", http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed", zap.String("check", name), zap.String("reason", c.Message))
		}
	}
	writeJSON(w, httpStatus, HealthResponse{Status: status, Checks: checks})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "Database connection is not initialized"}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to Redis"}
	}
	return Check{Status: "UP"}
}
