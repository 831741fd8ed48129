package domain

import "context"

// NoteRepository 笔记仓储接口
// 实现需将不存在映射为 ErrNoteNotFound，其它存储错误包装为 *StoreError
type NoteRepository interface {
	// List 获取全部笔记，顺序不保证
	List(ctx context.Context) ([]*Note, error)

	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id int64) (*Note, error)

	// ListByParent 获取直接子笔记，parentID 为 nil 时返回根笔记
	ListByParent(ctx context.Context, parentID *int64) ([]*Note, error)

	// SearchByName 名称子串匹配
	SearchByName(ctx context.Context, text string) ([]*Note, error)

	// Create 创建笔记，不校验父笔记是否存在
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update 更新名称和内容
	Update(ctx context.Context, id int64, name, content string) (*Note, error)

	// DeleteCascade 在同一事务内删除笔记及其全部后代
	// 返回删除前的笔记快照和被删除的后代 ID
	DeleteCascade(ctx context.Context, id int64) (*Note, []int64, error)

	// Move 在同一事务内完成祖先链检查和父节点更新，成环时返回 ErrCycle
	Move(ctx context.Context, id int64, newParentID *int64) (*Note, error)

	// Ancestors 返回从根到该笔记的路径（含自身），遇到悬空父引用时停止
	Ancestors(ctx context.Context, id int64) ([]*Note, error)

	// CountOrphans 统计父引用悬空的笔记数
	CountOrphans(ctx context.Context) (int64, error)
}

// ImageRepository 图片仓储接口
type ImageRepository interface {
	// Create 保存图片
	Create(ctx context.Context, image *Image) (*Image, error)

	// GetByID 根据ID获取图片
	GetByID(ctx context.Context, id string) (*Image, error)
}
