package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/pkg/helpers"
	"github.com/oksasatya/farm-registry/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksSixthRequest(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	r.POST("/api/auth/login", RateLimit(rdb, 5, time.Minute, KeyByIPAndUserAgent(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("User-Agent", "curl")
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("User-Agent", "curl")
	w := serve(r, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), `"statusCode":429`)

	// another user agent has its own window
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("User-Agent", "firefox")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimitWindowExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)

	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestRateLimitAllowPaths(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	r.Use(RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPaths("/healthz")))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	}
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "test")
	token, _, err := jwt.GenerateAccessToken("admin-1", "admin@farm.io")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+application.ActorFrom(c.Request.Context()))
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin-1|admin-1", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing access token")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, _, err := helpers.NewJWTManager("other", time.Hour, "test").GenerateAccessToken("admin-1", "a@b.c")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid access token")
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, incoming)
	assert.Equal(t, incoming, serve(r, req).Body.String())
}

func TestRealIPHonoursTrustedProxies(t *testing.T) {
	r := gin.New()
	require.NoError(t, TrustProxies(r, []string{"192.0.2.0/24", "10.0.0.0/8"}))
	r.Use(RealIP())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	// httptest requests come from 192.0.2.1
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "198.51.100.2", serve(r, req).Body.String())
}

func TestRealIPIgnoresHeadersFromUntrustedPeer(t *testing.T) {
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.Use(RealIP())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	req.Header.Set("CF-Connecting-IP", "127.0.0.1")
	assert.Equal(t, "203.0.113.7", serve(r, req).Body.String())
}

func TestRateLimitIgnoresRotatedForwardedFor(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.Use(RealIP())
	r.POST("/api/auth/login", RateLimit(rdb, 5, time.Minute, KeyByIPAndUserAgent(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("User-Agent", "curl")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		if serve(r, req).Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed)
}

func TestAllowPrivateIPNotSpoofable(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.Use(RealIP())
	r.GET("/debug/vars", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", "127.0.0.1")
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.RemoteAddr = "10.1.2.3:40000"
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/producers/:id", func(c *gin.Context) {
		c.Set(CtxUserIDKey, "admin-1")
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/api/producers/abc", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/producers/def", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `http_requests_per_endpoint_total{method="GET",path="/api/producers/:id"} 2`)
	assert.Equal(t, 1, m.ActiveUsers())
}
