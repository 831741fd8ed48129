package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			if err := recover(); err != nil {
				var errorMsg string
				fields := []zap.Field{
					zap.String("router", path),
					zap.String("method", c.Request.Method),
					zap.String("query", query),
					zap.String("ip", c.ClientIP()),
					zap.String("trace-id", GetTraceIDFromGin(c)),
					zap.String("stack", string(debug.Stack())),
				}
				switch e := err.(type) {
				case error:
					errorMsg = e.Error()
					logger.Error("Recovered from panic", append(fields, zap.Error(e))...)
				default:
					errorMsg = fmt.Sprintf("%v", e)
					logger.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", errorMsg))...)
				}

				app.NewResponse(c).ToErrorResponse(code.ErrorServerInternal.WithDetails(errorMsg), GetTraceIDFromGin(c))
				c.Abort()
			}
		}()

		c.Next()
	}
}
