package middleware

import (
	"github.com/gin-gonic/gin"
)

// cfConnectingIP is set by Cloudflare in front of the app.
const cfConnectingIP = "CF-Connecting-IP"

// TrustProxies limits who may set forwarding headers. Only peers inside proxies
// (IPs or CIDRs) are believed; with none, the client is the TCP peer. Headers are read
// in order: CF-Connecting-IP, X-Forwarded-For (right to left, skipping trusted hops),
// X-Real-IP.
func TrustProxies(r *gin.Engine, proxies []string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return err
	}
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = []string{cfConnectingIP, "X-Forwarded-For", "X-Real-IP"}
	return nil
}

// RealIP stores the resolved client IP in the Gin context (key: "real_ip") for rate
// limiting and audit rows.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

// ClientIP returns the address resolved by RealIP.
func ClientIP(c *gin.Context) string {
	return ipFromCtx(c)
}
