package api_router

import (
	"strconv"

	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/dto"
	pkgapp "github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"
	apperrors "github.com/haierkeys/note-tree-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 获取全部笔记
// @Summary 获取全部笔记
// @Description 返回所有笔记，不保证顺序
// @Tags 笔记
// @Produce json
// @Success 200 {array} dto.NoteDTO
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.App.NoteService.List(c.Request.Context())
	if err != nil {
		h.fail(c, "NoteHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(notes)
}

// Get 获取单条笔记
// @Summary 获取笔记详情
// @Tags 笔记
// @Produce json
// @Param id path int true "笔记 ID"
// @Success 200 {object} dto.NoteDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	note, err := h.App.NoteService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "NoteHandler.Get", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// Create 创建笔记
// @Summary 创建笔记
// @Description parentId 缺省或为 0 表示根笔记；content 为空时写入默认内容
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "笔记"
// @Success 200 {object} dto.NoteDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	params := &dto.NoteCreateRequest{}
	if !h.bind(c, "NoteHandler.Create", params) {
		return
	}
	note, err := h.App.NoteService.Create(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "NoteHandler.Create", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// Update 更新笔记名称和内容
// @Summary 更新笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Param id path int true "笔记 ID"
// @Param params body dto.NoteUpdateRequest true "名称与内容"
// @Success 200 {object} dto.NoteDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	params := &dto.NoteUpdateRequest{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}
	note, err := h.App.NoteService.Update(c.Request.Context(), id, params)
	if err != nil {
		h.fail(c, "NoteHandler.Update", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// Rename 仅修改名称，保留内容
// @Summary 重命名笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Param id path int true "笔记 ID"
// @Param params body dto.NoteRenameRequest true "新名称"
// @Success 200 {object} dto.NoteDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/{id}/name [patch]
func (h *NoteHandler) Rename(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	params := &dto.NoteRenameRequest{}
	if !h.bind(c, "NoteHandler.Rename", params) {
		return
	}
	note, err := h.App.NoteService.Rename(c.Request.Context(), id, params.Name)
	if err != nil {
		h.fail(c, "NoteHandler.Rename", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// Delete 删除笔记及其全部后代
// @Summary 删除笔记
// @Description 级联删除所有后代，返回删除前的笔记快照
// @Tags 笔记
// @Produce json
// @Param id path int true "笔记 ID"
// @Success 200 {object} dto.NoteDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	note, err := h.App.NoteService.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "NoteHandler.Delete", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// Move 移动笔记
// @Summary 移动笔记
// @Description newParentId 为 null 或 0 表示移到根；移到自身或后代下返回 409
// @Tags 笔记
// @Accept json
// @Produce json
// @Param id path int true "笔记 ID"
// @Param params body dto.NoteMoveRequest true "新父笔记"
// @Success 200 {object} dto.NoteDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Failure 409 {object} pkgapp.ErrorBody
// @Router /api/notes/{id}/move [post]
func (h *NoteHandler) Move(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	params := &dto.NoteMoveRequest{}
	if !h.bind(c, "NoteHandler.Move", params) {
		return
	}
	note, err := h.App.NoteService.Move(c.Request.Context(), id, params.NewParentID)
	if err != nil {
		h.fail(c, "NoteHandler.Move", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// ByParent 按父笔记列出子笔记，parentId 为 "null" 时列出根笔记
// @Summary 获取子笔记
// @Tags 笔记
// @Produce json
// @Param parentId path string true "父笔记 ID 或 null"
// @Success 200 {array} dto.NoteDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Router /api/notes/by-parent/{parentId} [get]
func (h *NoteHandler) ByParent(c *gin.Context) {
	var parentID *int64
	if raw := c.Param("parentId"); raw != "null" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apperrors.ErrorResponseWithCode(c, code.ErrorInvalidNoteID.WithDetails("invalid parent id"))
			return
		}
		parentID = &id
	}
	notes, err := h.App.NoteService.Children(c.Request.Context(), parentID)
	if err != nil {
		h.fail(c, "NoteHandler.ByParent", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(notes)
}

// Search 名称子串搜索
// @Summary 搜索笔记
// @Tags 笔记
// @Produce json
// @Param q query string true "名称子串"
// @Success 200 {array} dto.NoteDTO
// @Failure 400 {object} pkgapp.ErrorBody
// @Router /api/search [get]
func (h *NoteHandler) Search(c *gin.Context) {
	params := &dto.NoteSearchRequest{}
	if !h.bind(c, "NoteHandler.Search", params) {
		return
	}
	notes, err := h.App.NoteService.Search(c.Request.Context(), params.Q)
	if err != nil {
		h.fail(c, "NoteHandler.Search", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(notes)
}

// Path 面包屑，从根到当前笔记
// @Summary 获取笔记路径
// @Tags 笔记
// @Produce json
// @Param id path int true "笔记 ID"
// @Success 200 {array} dto.BreadcrumbDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/{id}/path [get]
func (h *NoteHandler) Path(c *gin.Context) {
	id, ok := h.noteID(c, "id")
	if !ok {
		return
	}
	crumbs, err := h.App.NoteService.Path(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "NoteHandler.Path", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(crumbs)
}

// ByPath 按名称路径定位笔记
// @Summary 按路径获取笔记
// @Tags 笔记
// @Produce json
// @Param path query string true "以 / 分隔的名称路径"
// @Success 200 {object} dto.NoteDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/by-path [get]
func (h *NoteHandler) ByPath(c *gin.Context) {
	params := &dto.NotePathRequest{}
	if !h.bind(c, "NoteHandler.ByPath", params) {
		return
	}
	note, err := h.App.NoteService.ByPath(c.Request.Context(), params.Path)
	if err != nil {
		h.fail(c, "NoteHandler.ByPath", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(note)
}

// ChildrenByPath 列出路径下的子笔记，空路径为根笔记
// @Summary 按路径获取子笔记
// @Tags 笔记
// @Produce json
// @Param path query string false "以 / 分隔的名称路径"
// @Success 200 {array} dto.NoteDTO
// @Failure 404 {object} pkgapp.ErrorBody
// @Router /api/notes/by-path/children [get]
func (h *NoteHandler) ChildrenByPath(c *gin.Context) {
	params := &dto.NotePathRequest{}
	if !h.bind(c, "NoteHandler.ChildrenByPath", params) {
		return
	}
	notes, err := h.App.NoteService.ChildrenByPath(c.Request.Context(), params.Path)
	if err != nil {
		h.fail(c, "NoteHandler.ChildrenByPath", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(notes)
}

// Tree 服务端构建的笔记树
// @Summary 获取笔记树
// @Tags 笔记
// @Produce json
// @Success 200 {array} tree.Node
// @Router /api/notes/tree [get]
func (h *NoteHandler) Tree(c *gin.Context) {
	nodes, err := h.App.NoteService.Tree(c.Request.Context())
	if err != nil {
		h.fail(c, "NoteHandler.Tree", err)
		return
	}
	pkgapp.NewResponse(c).ToJSON(nodes)
}
