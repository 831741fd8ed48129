package api_router

import (
	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/dto"
	pkgapp "github.com/haierkeys/note-tree-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// ImageHandler 图片 API 路由处理器
type ImageHandler struct {
	*Handler
}

// NewImageHandler 创建 ImageHandler 实例
func NewImageHandler(a *app.App) *ImageHandler {
	return &ImageHandler{Handler: NewHandler(a)}
}

// Upload 上传 base64 编码的图片
// @Summary 上传图片
// @Description 返回图片记录（不含数据）；若配置了镜像存储，解码后的内容会异步写入
// @Tags 图片
// @Accept json
// @Produce json
// @Param params body dto.ImageUploadRequest true "图片"
// @Success 200 {object} dto.ImageDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Failure 413 {object} pkgapp.ErrorBody
// @Router /api/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	params := &dto.ImageUploadRequest{}
	if !h.bind(c, "ImageHandler.Upload", params) {
		return
	}
	img, err := h.App.ImageService.Upload(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "ImageHandler.Upload", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(img)
}

// Get 获取图片记录（含 base64 数据）
// @Summary 获取图片
// @Tags 图片
// @Produce json
// @Param id path string true "图片 ID"
// @Success 200 {object} dto.ImageDataDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/images/{id} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	img, err := h.App.ImageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "ImageHandler.Get", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(img)
}
