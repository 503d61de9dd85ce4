package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records one finished request.
type RequestObserver interface {
	ObserveRequest(route string, status int, d time.Duration)
}

// Metrics counts requests by matched route, falling back to the raw path for
// unmatched ones.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		obs.ObserveRequest(route, c.Writer.Status(), time.Since(start))
	}
}
