package middleware

import (
	"github.com/gin-gonic/gin"
)

// forwardedHeaders are consulted in order, and only when the socket peer is a
// trusted proxy. X-Forwarded-For is walked right to left past trusted hops.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies configures which peers may report the client address through
// forwarding headers. With no proxies every request is keyed on its socket
// peer.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = forwardedHeaders
	if len(proxies) == 0 {
		proxies = nil
	}
	return r.SetTrustedProxies(proxies)
}

// RealIP stores the client address under "real_ip". Rate-limit keys and the
// access log read it from there. Install TrustProxies on the engine first.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
