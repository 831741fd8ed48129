// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"strconv"

	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"
	apperrors "github.com/haierkeys/note-tree-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind 绑定并校验参数，失败时直接输出 400
func (h *Handler) bind(c *gin.Context, op string, params interface{}) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if valid {
		return true
	}
	h.App.Logger().Warn(op+".BindAndValid err", zap.Error(errs))
	apperrors.ErrorResponseWithCode(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...).WithData(errs.MapsToString()))
	return false
}

// noteID 解析路径参数中的笔记 ID，非数字或非正数时输出 400
func (h *Handler) noteID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apperrors.ErrorResponseWithCode(c, code.ErrorInvalidNoteID)
		return 0, false
	}
	return id, true
}

// fail 记录日志并输出错误响应
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logError(c.Request.Context(), op, err)
	apperrors.ErrorResponse(c, err)
}

// logError 记录错误日志，服务端错误使用 Error 级别，其余使用 Warn
func (h *Handler) logError(ctx context.Context, op string, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("traceId", middleware.GetTraceID(ctx)),
		zap.Error(err),
	}
	if c, ok := err.(*code.Code); ok && c.StatusCode() < 500 {
		h.App.Logger().Warn(op, fields...)
		return
	}
	h.App.Logger().Error(op, fields...)
}
