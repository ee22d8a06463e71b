package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/pkg/response"
)

type ProducerHandler struct {
	Svc    *application.ProducerService
	Logger *logrus.Logger
}

func NewProducerHandler(svc *application.ProducerService, logger *logrus.Logger) *ProducerHandler {
	return &ProducerHandler{Svc: svc, Logger: logger}
}

type createProducerRequest struct {
	CPFCNPJ string `json:"cpfCnpj" binding:"required,document"`
	Name    string `json:"name" binding:"required,max=255"`
}

type updateProducerRequest struct {
	CPFCNPJ *string `json:"cpfCnpj" binding:"omitempty,document"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
}

type producerFilterQuery struct {
	pageQuery
	Name    string `form:"name"`
	CPFCNPJ string `form:"cpfCnpj"`
}

// Create POST /api/producers
func (h *ProducerHandler) Create(c *gin.Context) {
	var req createProducerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreateProducerInput{CPFCNPJ: req.CPFCNPJ, Name: req.Name})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "producer created")
}

// Filter GET /api/producers/filter?page=1&limit=10&name=..&orders[name]=asc
func (h *ProducerHandler) Filter(c *gin.Context) {
	var q producerFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.Svc.Filter(c.Request.Context(), application.ProducerFilter{
		Name:    q.Name,
		CPFCNPJ: q.CPFCNPJ,
		Orders:  c.QueryMap("orders"),
		Page:    q.Page,
		Limit:   q.Limit,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "producers retrieved")
}

// FindOne GET /api/producers/:id
func (h *ProducerHandler) FindOne(c *gin.Context) {
	p, err := h.Svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "producer retrieved")
}

// Update PUT /api/producers/:id
func (h *ProducerHandler) Update(c *gin.Context) {
	var req updateProducerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateProducerInput{CPFCNPJ: req.CPFCNPJ, Name: req.Name})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "producer updated")
}

// Remove DELETE /api/producers/:id
func (h *ProducerHandler) Remove(c *gin.Context) {
	p, err := h.Svc.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "producer deleted")
}
