package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/farm-registry/internal/interface/http"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

type HarvestModule struct {
	Handler *handlers.HarvestHandler
	JWT     *helpers.JWTManager
}

func NewHarvestModule(h *handlers.HarvestHandler, jwt *helpers.JWTManager) *HarvestModule {
	return &HarvestModule{Handler: h, JWT: jwt}
}

func (m *HarvestModule) Register(rg *gin.RouterGroup) {
	g := protected(rg, "/harvests", m.JWT)
	{
		g.POST("", m.Handler.Create)
		g.GET("", m.Handler.FindAll)
		g.GET("/dashboard/data", m.Handler.Dashboard)
		g.POST("/crops", m.Handler.AddCrop)
		g.GET("/crops/:id", m.Handler.FindOneCrop)
		g.DELETE("/crops/:id", m.Handler.RemoveCrop)
		g.GET("/:id", m.Handler.FindOne)
		g.DELETE("/:id", m.Handler.Remove)
	}
}
