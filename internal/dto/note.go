// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "time"

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parentId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteCreateRequest 创建笔记
// parentId 缺省或为 0 表示根笔记，content 为空时使用默认内容
type NoteCreateRequest struct {
	Name     string `json:"name" form:"name" binding:"required,notblank"`
	ParentID *int64 `json:"parentId" form:"parentId" binding:"omitempty,min=0"`
	Content  string `json:"content" form:"content"`
}

// NoteUpdateRequest 更新笔记名称和内容，content 允许为空字符串
type NoteUpdateRequest struct {
	Name    string  `json:"name" form:"name" binding:"required,notblank"`
	Content *string `json:"content" form:"content" binding:"required"`
}

// NoteRenameRequest 仅修改名称
type NoteRenameRequest struct {
	Name string `json:"name" form:"name" binding:"required,notblank"`
}

// NoteMoveRequest 移动笔记，newParentId 为 null 或 0 表示移到根
type NoteMoveRequest struct {
	NewParentID *int64 `json:"newParentId" form:"newParentId" binding:"omitempty,min=0"`
}

// NoteSearchRequest 名称子串搜索
type NoteSearchRequest struct {
	Q string `json:"q" form:"q"`
}

// NotePathRequest 按名称路径定位，段之间以 / 分隔
type NotePathRequest struct {
	Path string `json:"path" form:"path"`
}

// BreadcrumbDTO 面包屑节点
type BreadcrumbDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
