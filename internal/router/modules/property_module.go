package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/farm-registry/internal/interface/http"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

type PropertyModule struct {
	Handler *handlers.PropertyHandler
	JWT     *helpers.JWTManager
}

func NewPropertyModule(h *handlers.PropertyHandler, jwt *helpers.JWTManager) *PropertyModule {
	return &PropertyModule{Handler: h, JWT: jwt}
}

func (m *PropertyModule) Register(rg *gin.RouterGroup) {
	g := protected(rg, "/properties", m.JWT)
	{
		g.POST("", m.Handler.Create)
		g.GET("/filter", m.Handler.Filter)
		g.GET("/search", m.Handler.Search)
		g.GET("/:id", m.Handler.FindOne)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Remove)
	}
}
