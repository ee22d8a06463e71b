package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/response"
	"github.com/oksasatya/farm-registry/pkg/validation"
)

// pageQuery is the pagination part of every filter endpoint.
type pageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// fail maps err onto the response envelope. Internal failures are logged with
// their cause and answered with a generic message.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := shared.HTTPStatus(err)
	msg := shared.PublicMessage(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, status, msg, "")
}

// badRequest answers a binding or validation failure.
func badRequest(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.Summary(validation.ToDetails(err)))
}
