// Package domain 定义领域模型和接口
package domain

import "time"

// DefaultNoteContent 新建笔记未提供内容时的默认内容
const DefaultNoteContent = "This is a new note"

// Note 笔记领域模型
// ParentID 为 nil 表示根笔记
type Note struct {
	ID        int64
	Name      string
	ParentID  *int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParentRef 将外部输入的父 ID 规范化：0 及负数视为根
func ParentRef(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// NoteEventType 笔记变更事件类型
type NoteEventType string

const (
	NoteEventCreate NoteEventType = "create"
	NoteEventUpdate NoteEventType = "update"
	NoteEventDelete NoteEventType = "delete"
	NoteEventMove   NoteEventType = "move"
)

// NoteEvent 笔记变更事件，客户端收到后将目录树标记为过期
type NoteEvent struct {
	Type     NoteEventType `json:"type"`
	ID       int64         `json:"id"`
	ParentID *int64        `json:"parentId"`
	// Removed 级联删除时被一并删除的后代 ID
	Removed []int64 `json:"removed,omitempty"`
}
