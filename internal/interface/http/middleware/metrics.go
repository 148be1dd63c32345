package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lubrimax/lubestock/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 注意用FullPath()而非Request.URL.Path作为label，
// 否则 /api/v1/alerts/42 这类带参数的路径会把label基数打爆
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求归到一个桶
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": statusLabel(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}

// statusLabel 把状态码折叠成2xx/4xx/5xx，控制label基数
func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
