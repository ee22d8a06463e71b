package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/pkg/response"
)

type HarvestHandler struct {
	Svc    *application.HarvestService
	Logger *logrus.Logger
}

func NewHarvestHandler(svc *application.HarvestService, logger *logrus.Logger) *HarvestHandler {
	return &HarvestHandler{Svc: svc, Logger: logger}
}

type createHarvestRequest struct {
	Year       int    `json:"year" binding:"required,min=1900"`
	PropertyID string `json:"propertyId" binding:"required,uuid"`
}

type addCropRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	HarvestID string `json:"harvestId" binding:"required,uuid"`
}

// Create POST /api/harvests
func (h *HarvestHandler) Create(c *gin.Context) {
	var req createHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), application.CreateHarvestInput{Year: req.Year, PropertyID: req.PropertyID})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, out, "harvest created")
}

// FindAll GET /api/harvests?propertyId=..
func (h *HarvestHandler) FindAll(c *gin.Context) {
	items, err := h.Svc.FindAll(c.Request.Context(), c.Query("propertyId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, items, "harvests retrieved")
}

// FindOne GET /api/harvests/:id
func (h *HarvestHandler) FindOne(c *gin.Context) {
	out, err := h.Svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "harvest retrieved")
}

// Remove DELETE /api/harvests/:id
func (h *HarvestHandler) Remove(c *gin.Context) {
	out, err := h.Svc.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "harvest deleted")
}

// AddCrop POST /api/harvests/crops
func (h *HarvestHandler) AddCrop(c *gin.Context) {
	var req addCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.Svc.AddCrop(c.Request.Context(), application.AddCropInput{Name: req.Name, HarvestID: req.HarvestID})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, out, "crop added")
}

// FindOneCrop GET /api/harvests/crops/:id
func (h *HarvestHandler) FindOneCrop(c *gin.Context) {
	out, err := h.Svc.FindOneCrop(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "crop retrieved")
}

// RemoveCrop DELETE /api/harvests/crops/:id
func (h *HarvestHandler) RemoveCrop(c *gin.Context) {
	out, err := h.Svc.RemoveCrop(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "crop removed")
}

// Dashboard GET /api/harvests/dashboard/data
func (h *HarvestHandler) Dashboard(c *gin.Context) {
	out, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "dashboard data retrieved")
}
