package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope written by every endpoint. Error is null on
// success and a human-readable message on failure.
type APIResponse[T any] struct {
	StatusCode int     `json:"statusCode"`
	Message    string  `json:"message"`
	Data       T       `json:"data,omitempty"`
	Error      *string `json:"error"`
	RequestID  string  `json:"requestId,omitempty"`
}

// Success writes data with the given status (200 when zero).
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		StatusCode: status,
		Message:    message,
		Data:       data,
		RequestID:  ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope and aborts the handler chain. detail
// defaults to message.
func Error(ctx *gin.Context, status int, message, detail string) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if detail == "" {
		detail = message
	}
	resp := APIResponse[any]{
		StatusCode: status,
		Message:    message,
		Error:      &detail,
		RequestID:  ctx.GetString("request_id"),
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
