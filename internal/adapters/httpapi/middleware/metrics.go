package middleware

import (
	"strconv"
	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests by matched route and status code.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
