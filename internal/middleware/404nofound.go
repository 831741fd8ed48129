package middleware

import (
	"github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler
// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToErrorResponse(code.ErrorNotFoundAPI, GetTraceIDFromGin(c))
		c.Abort()
	}
}
