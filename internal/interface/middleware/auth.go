package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/pkg/helpers"
	"github.com/oksasatya/farm-registry/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// bearerToken reads the access token from the Authorization header, falling
// back to the access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, _ := c.Cookie("access_token")
	return token
}

// Auth validates the access token and sets userID and userEmail in the Gin
// context. The admin id is also attached to the request context so services
// can stamp events with it.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", "")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", "")
			return
		}

		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Request = c.Request.WithContext(application.WithActor(c.Request.Context(), claims.Subject))
		c.Next()
	}
}
