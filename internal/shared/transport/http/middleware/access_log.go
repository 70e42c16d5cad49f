package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/tracex"
)

// AccessLog 为每个请求补齐 trace_id 并写一条访问日志。
// 状态码 < 400 记为 biz_code 0，否则以状态码作为 biz_code。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx, _ := tracex.EnsureTraceID(c.Request.Context())
		ctx = tracex.WithSpanID(ctx, "ops")
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()

		c.Next()

		code := 0
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			code = status
		}
		logx.ReportAccessWithLoggerContext(ctx, log, action, code,
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
