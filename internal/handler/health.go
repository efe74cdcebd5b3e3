package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/pkg/response"
)

// CheckFunc reports whether one dependency is reachable
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
	logger  *logrus.Logger
}

func NewHealthHandler(checks map[string]CheckFunc, timeout time.Duration, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: timeout,
		logger:  logger,
	}
}

// DatabaseCheck pings Postgres
func DatabaseCheck(db *sqlx.DB) CheckFunc {
	return db.PingContext
}

// RedisCheck pings Redis
func RedisCheck(client *redis.Client) CheckFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready runs every dependency check under the configured timeout
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err := h.checks[name](ctx)
		cancel()

		if err != nil {
			status.Status = "error"
			status.Checks[name] = "failed: " + err.Error()
			h.logger.WithError(err).WithField("check", name).Warn("Readiness check failed")
			continue
		}
		status.Checks[name] = "ok"
	}

	if status.Status == "error" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(w, status)
}
