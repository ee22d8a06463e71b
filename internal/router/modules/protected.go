package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/farm-registry/internal/container"
	"github.com/oksasatya/farm-registry/internal/interface/middleware"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

// protected returns a group requiring a valid access token, rate limited per
// admin.
func protected(rg *gin.RouterGroup, path string, jwt *helpers.JWTManager) *gin.RouterGroup {
	cfg := container.GetConfig()
	g := rg.Group(path)
	g.Use(middleware.Auth(jwt))
	g.Use(middleware.RateLimit(container.GetRedis(), cfg.APIRateLimitMax, cfg.RateLimitWindow, middleware.KeyByUserID(), nil))
	return g
}
