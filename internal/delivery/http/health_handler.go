package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

const (
	serviceName    = "Universal Roblox AI ChatBot Proxy Server is running"
	serviceVersion = "1.2.0"
	pingTimeout    = 2 * time.Second
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	registry repository.JobRegistry
	redis    *goredis.Client // nil when Redis is not configured
	provider string
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. rdb may be nil.
func NewHealthHandler(registry repository.JobRegistry, rdb *goredis.Client, provider string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		redis:    rdb,
		provider: provider,
		logger:   logger,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": serviceName,
		"version": serviceVersion,
	})
}

// Health handles GET /health. Redis is optional, so a failing ping degrades
// the report without failing the check.
func (h *HealthHandler) Health(c *gin.Context) {
	redisStatus := "disabled"
	status := "ok"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warn("Redis health check failed", zap.Error(err))
			redisStatus = "unreachable"
			status = "degraded"
		} else {
			redisStatus = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"provider": h.provider,
		"services": gin.H{
			"registry": gin.H{"status": "ok", "jobs": h.registry.Len(c.Request.Context())},
			"redis":    redisStatus,
		},
	})
}
