package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthController struct {
	redis *redis.Client
}

// NewHealthController accepts a nil client when Redis is not configured.
func NewHealthController(client *redis.Client) *HealthController {
	return &HealthController{redis: client}
}

func (h *HealthController) Health(c *gin.Context) {
	status := gin.H{"status": "ok", "timestamp": time.Now().UTC()}
	if h.redis == nil {
		status["redis"] = "disabled"
		c.JSON(http.StatusOK, status)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := h.redis.Ping(ctx).Err(); err != nil {
		status["status"] = "degraded"
		status["redis"] = "down"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	status["redis"] = "ok"
	c.JSON(http.StatusOK, status)
}
