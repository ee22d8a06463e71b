package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/farm-registry/internal/container"
	handlers "github.com/oksasatya/farm-registry/internal/interface/http"
	"github.com/oksasatya/farm-registry/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	// Public endpoints, limited per client IP and user agent
	limiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndUserAgent(), nil)

	rg.POST("/auth/register", limiter, m.Handler.Register)
	rg.POST("/auth/login", limiter, m.Handler.Login)
}
