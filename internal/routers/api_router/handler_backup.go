package api_router

import (
	"github.com/haierkeys/note-tree-service/internal/app"
	pkgapp "github.com/haierkeys/note-tree-service/pkg/app"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BackupHandler 备份处理器
type BackupHandler struct {
	*Handler
}

// NewBackupHandler 创建 BackupHandler 实例
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{Handler: NewHandler(a)}
}

// Run 立即执行一次备份
// @Summary 手动备份
// @Description 将全部笔记导出为 HTML 文件与 manifest.json；未配置备份存储时返回 503，已有备份在执行时返回 409
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.BackupResultDTO
// @Failure 409 {object} pkgapp.ErrorBody
// @Failure 503 {object} pkgapp.ErrorBody
// @Router /api/admin/backup [post]
func (h *BackupHandler) Run(c *gin.Context) {
	res, err := h.App.BackupService.Run(c.Request.Context())
	if err != nil {
		h.fail(c, "BackupHandler.Run", err)
		return
	}
	h.App.Logger().Info("manual backup finished",
		zap.String("prefix", res.Prefix),
		zap.Int("notes", res.Notes))
	pkgapp.NewResponse(c).ToJSON(res)
}
