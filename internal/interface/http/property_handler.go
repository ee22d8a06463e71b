package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/pkg/response"
)

type PropertyHandler struct {
	Svc    *application.PropertyService
	Logger *logrus.Logger
}

func NewPropertyHandler(svc *application.PropertyService, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{Svc: svc, Logger: logger}
}

type createPropertyRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	City             string `json:"city" binding:"required,max=255"`
	State            string `json:"state" binding:"required,uf"`
	TotalArea        *int   `json:"totalArea" binding:"required,min=1"`
	AgriculturalArea *int   `json:"agriculturalArea" binding:"required,min=0"`
	VegetationArea   *int   `json:"vegetationArea" binding:"required,min=0"`
	ProducerID       string `json:"producerId" binding:"required,uuid"`
}

type updatePropertyRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=255"`
	City             *string `json:"city" binding:"omitempty,min=1,max=255"`
	State            *string `json:"state" binding:"omitempty,uf"`
	TotalArea        *int    `json:"totalArea" binding:"omitempty,min=1"`
	AgriculturalArea *int    `json:"agriculturalArea" binding:"omitempty,min=0"`
	VegetationArea   *int    `json:"vegetationArea" binding:"omitempty,min=0"`
	ProducerID       *string `json:"producerId" binding:"omitempty,uuid"`
}

type propertyFilterQuery struct {
	pageQuery
	Name  string `form:"name"`
	City  string `form:"city"`
	State string `form:"state"`
}

type propertySearchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// Create POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreatePropertyInput{
		Name:             req.Name,
		City:             req.City,
		State:            req.State,
		TotalArea:        *req.TotalArea,
		AgriculturalArea: *req.AgriculturalArea,
		VegetationArea:   *req.VegetationArea,
		ProducerID:       req.ProducerID,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "property created")
}

// Filter GET /api/properties/filter
func (h *PropertyHandler) Filter(c *gin.Context) {
	var q propertyFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.Filter(c.Request.Context(), application.PropertyFilter{
		Name:   q.Name,
		City:   q.City,
		State:  q.State,
		Orders: c.QueryMap("orders"),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "properties retrieved")
}

// Search GET /api/properties/search?q=..&size=..
func (h *PropertyHandler) Search(c *gin.Context) {
	var q propertySearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "properties found")
}

// FindOne GET /api/properties/:id
func (h *PropertyHandler) FindOne(c *gin.Context) {
	p, err := h.Svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "property retrieved")
}

// Update PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdatePropertyInput{
		Name:             req.Name,
		City:             req.City,
		State:            req.State,
		TotalArea:        req.TotalArea,
		AgriculturalArea: req.AgriculturalArea,
		VegetationArea:   req.VegetationArea,
		ProducerID:       req.ProducerID,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "property updated")
}

// Remove DELETE /api/properties/:id
func (h *PropertyHandler) Remove(c *gin.Context) {
	p, err := h.Svc.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "property deleted")
}
