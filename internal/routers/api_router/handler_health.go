package api_router

import (
	"context"
	"net/http"
	"time"

	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接；数据库不可用时返回 503
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.HealthDTO
// @Failure 503 {object} dto.HealthDTO
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	res := &dto.HealthDTO{
		Status:   "healthy",
		Database: "connected",
		Version:  h.App.Version().Version,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	// 检查数据库连接
	if err := h.App.Dao.Ping(ctx); err != nil {
		h.App.Logger().Error("HealthHandler.Check ping err", zap.Error(err))
		res.Status = "unhealthy"
		res.Database = "error"
		c.JSON(http.StatusServiceUnavailable, res)
		return
	}

	c.JSON(http.StatusOK, res)
}
