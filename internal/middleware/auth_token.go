package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AuthTokenWithConfig 简单 Token 认证中间件（使用注入的配置）
// authToken 为空时不做校验；支持 Authorization: Bearer <token>、token 请求头和 ?token= 参数
func AuthTokenWithConfig(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {

		if authToken == "" {
			c.Next()
			return
		}

		token := requestToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(authToken)) != 1 {
			app.NewResponse(c).ToErrorResponse(code.ErrorNotAuthToken, GetTraceIDFromGin(c))
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if s := c.GetHeader("Authorization"); s != "" {
		if after, ok := strings.CutPrefix(s, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
		return strings.TrimSpace(s)
	}
	if s := c.GetHeader("token"); s != "" {
		return s
	}
	if s, ok := c.GetQuery("token"); ok {
		return s
	}
	return ""
}
