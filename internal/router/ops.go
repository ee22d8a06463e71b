package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/farm-registry/internal/container"
	pginfra "github.com/oksasatya/farm-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/farm-registry/internal/interface/middleware"
	"github.com/oksasatya/farm-registry/pkg/response"
)

type healthStatus struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

const opsRateLimitMax = 120

// RegisterOps mounts the operational endpoints outside /api: /healthz always,
// /metrics when a collector is configured. Public peers are limited per IP;
// health probes and private-network scrapers are not.
func RegisterOps(engine *gin.Engine) {
	allow := middleware.AnyOf(middleware.AllowPaths("/healthz"), middleware.AllowPrivateIP())
	ops := engine.Group("", middleware.RateLimit(container.GetRedis(), opsRateLimitMax, time.Minute, middleware.KeyByIP(), allow))
	ops.GET("/healthz", healthz)
	if m := container.GetMetrics(); m != nil && container.GetConfig().MetricsEnabled {
		ops.GET("/metrics", gin.WrapH(m.Handler()))
	}
}

func healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	st := healthStatus{Postgres: "ok", Redis: "ok"}
	healthy := true
	if db := container.GetPGPool(); db == nil || pginfra.Ping(ctx, db) != nil {
		st.Postgres = "down"
		healthy = false
	}
	if rdb := container.GetRedis(); rdb == nil || rdb.Ping(ctx).Err() != nil {
		// rate limiting fails open and the cache is optional
		st.Redis = "degraded"
	}
	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.APIResponse[healthStatus]{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "unhealthy",
			Data:       st,
		})
		return
	}
	response.Success(c, http.StatusOK, st, "ok")
}
