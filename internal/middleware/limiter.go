package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 按 "METHOD 路由" 取令牌，未配置规则的路由不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket, ok := l.GetBucket(l.Key(c))
		if !ok {
			c.Next()
			return
		}
		if bucket.TakeAvailable(1) == 0 {
			c.Header("Retry-After", strconv.Itoa(retryAfter(bucket.Rate())))
			app.NewResponse(c).ToErrorResponse(code.ErrorTooManyRequests, GetTraceIDFromGin(c))
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
		c.Next()
	}
}

// retryAfter 补充一个令牌所需的秒数，至少 1 秒
func retryAfter(rate float64) int {
	if rate <= 0 {
		return 1
	}
	return int(math.Ceil(1/rate - 1e-6))
}
