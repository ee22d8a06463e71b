package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/farm-registry/internal/interface/http"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

type ProducerModule struct {
	Handler *handlers.ProducerHandler
	JWT     *helpers.JWTManager
}

func NewProducerModule(h *handlers.ProducerHandler, jwt *helpers.JWTManager) *ProducerModule {
	return &ProducerModule{Handler: h, JWT: jwt}
}

func (m *ProducerModule) Register(rg *gin.RouterGroup) {
	g := protected(rg, "/producers", m.JWT)
	{
		g.POST("", m.Handler.Create)
		g.GET("/filter", m.Handler.Filter)
		g.GET("/:id", m.Handler.FindOne)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Remove)
	}
}
