package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/internal/tree"
	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoteService 定义笔记层级业务服务接口
type NoteService interface {
	// List 获取全部笔记
	List(ctx context.Context) ([]*dto.NoteDTO, error)

	// Get 获取单条笔记
	Get(ctx context.Context, id int64) (*dto.NoteDTO, error)

	// Children 获取直接子笔记，parentID 为 nil 时返回根笔记
	Children(ctx context.Context, parentID *int64) ([]*dto.NoteDTO, error)

	// Search 名称子串搜索
	Search(ctx context.Context, q string) ([]*dto.NoteDTO, error)

	// Create 创建笔记
	Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Update 更新名称和内容
	Update(ctx context.Context, id int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Rename 仅修改名称，保留内容
	Rename(ctx context.Context, id int64, name string) (*dto.NoteDTO, error)

	// Delete 级联删除，返回删除前的快照
	Delete(ctx context.Context, id int64) (*dto.NoteDTO, error)

	// Move 移动笔记，成环时返回 code.ErrorNoteCycle
	Move(ctx context.Context, id int64, newParentID *int64) (*dto.NoteDTO, error)

	// Path 面包屑，从根到该笔记
	Path(ctx context.Context, id int64) ([]*dto.BreadcrumbDTO, error)

	// ByPath 按名称路径定位笔记
	ByPath(ctx context.Context, path string) (*dto.NoteDTO, error)

	// ChildrenByPath 按名称路径列出子笔记，空路径返回根笔记
	ChildrenByPath(ctx context.Context, path string) ([]*dto.NoteDTO, error)

	// Tree 在服务端构建目录树
	Tree(ctx context.Context) ([]*tree.Node, error)

	// CountOrphans 统计父引用悬空的笔记数
	CountOrphans(ctx context.Context) (int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo  domain.NoteRepository
	publisher EventPublisher
	sf        *singleflight.Group
	logger    *zap.Logger
}

// NewNoteService 创建 NoteService 实例，publisher 可为 nil
func NewNoteService(noteRepo domain.NoteRepository, publisher EventPublisher, logger *zap.Logger) NoteService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		noteRepo:  noteRepo,
		publisher: publisher,
		sf:        &singleflight.Group{},
		logger:    logger,
	}
}

func (s *noteService) toDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	d := &dto.NoteDTO{}
	_ = copier.CopyWithOption(d, n, copier.Option{DeepCopy: true})
	return d
}

func (s *noteService) toDTOs(notes []*domain.Note) []*dto.NoteDTO {
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, s.toDTO(n))
	}
	return out
}

func (s *noteService) observe(op string, err error) {
	noteOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

// shared 合并并发的相同读请求
// 共享查询使用不可取消的 ctx，单个调用方取消不会让其他等待方失败；调用方仍可凭自身 ctx 提前返回
func (s *noteService) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, domain.NewStoreError("read note", ctx.Err())
	}
}

// forget 写入后丢弃进行中的共享读，之后的读取重新查询
func (s *noteService) forget(ids ...int64) {
	s.sf.Forget("list")
	for _, id := range ids {
		s.sf.Forget(fmt.Sprintf("get:%d", id))
	}
}

// List 获取全部笔记
// 并发的相同请求合并为一次查询
func (s *noteService) List(ctx context.Context) ([]*dto.NoteDTO, error) {
	v, err := s.shared(ctx, "list", func(ctx context.Context) (any, error) {
		return s.noteRepo.List(ctx)
	})
	if err != nil {
		return nil, toCode(err)
	}
	return s.toDTOs(v.([]*domain.Note)), nil
}

// Get 获取单条笔记
func (s *noteService) Get(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	v, err := s.shared(ctx, fmt.Sprintf("get:%d", id), func(ctx context.Context) (any, error) {
		return s.noteRepo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, toCode(err)
	}
	return s.toDTO(v.(*domain.Note)), nil
}

// Children 获取直接子笔记
func (s *noteService) Children(ctx context.Context, parentID *int64) ([]*dto.NoteDTO, error) {
	notes, err := s.noteRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, toCode(err)
	}
	return s.toDTOs(notes), nil
}

// Search 名称子串搜索
func (s *noteService) Search(ctx context.Context, q string) ([]*dto.NoteDTO, error) {
	if q == "" {
		return nil, code.ErrorSearchQueryRequired
	}
	notes, err := s.noteRepo.SearchByName(ctx, q)
	if err != nil {
		return nil, toCode(err)
	}
	return s.toDTOs(notes), nil
}

// Create 创建笔记
// parentId 为 0 视为根笔记，不校验父笔记是否存在；content 为空时写入默认内容
func (s *noteService) Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, code.ErrorNoteNameRequired
	}
	content := params.Content
	if content == "" {
		content = domain.DefaultNoteContent
	}
	var parentID *int64
	if params.ParentID != nil {
		parentID = domain.ParentRef(*params.ParentID)
	}

	n, err := s.noteRepo.Create(ctx, &domain.Note{
		Name:     params.Name,
		ParentID: parentID,
		Content:  content,
	})
	s.observe("create", err)
	if err != nil {
		s.logger.Error("create note failed", zap.String("name", params.Name), zap.Error(err))
		return nil, toCode(err)
	}

	s.forget()
	s.publisher.Publish(domain.NoteEvent{Type: domain.NoteEventCreate, ID: n.ID, ParentID: n.ParentID})
	return s.toDTO(n), nil
}

// Update 更新名称和内容
func (s *noteService) Update(ctx context.Context, id int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, code.ErrorNoteNameRequired
	}
	content := ""
	if params.Content != nil {
		content = *params.Content
	}

	n, err := s.noteRepo.Update(ctx, id, params.Name, content)
	s.observe("update", err)
	if err != nil {
		return nil, toCode(err)
	}
	s.forget(n.ID)
	s.publisher.Publish(domain.NoteEvent{Type: domain.NoteEventUpdate, ID: n.ID, ParentID: n.ParentID})
	return s.toDTO(n), nil
}

// Rename 先读取再更新，内容保持不变
func (s *noteService) Rename(ctx context.Context, id int64, name string) (*dto.NoteDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	if strings.TrimSpace(name) == "" {
		return nil, code.ErrorNoteNameRequired
	}
	cur, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toCode(err)
	}
	content := cur.Content
	return s.Update(ctx, id, &dto.NoteUpdateRequest{Name: name, Content: &content})
}

// Delete 级联删除笔记及其全部后代
func (s *noteService) Delete(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	n, removed, err := s.noteRepo.DeleteCascade(ctx, id)
	s.observe("delete", err)
	if err != nil {
		if domain.IsStoreError(err) {
			s.logger.Error("cascade delete failed", zap.Int64("noteId", id), zap.Error(err))
		}
		return nil, toCode(err)
	}

	if len(removed) > 0 {
		s.logger.Info("cascade delete",
			zap.Int64("noteId", id),
			zap.Int("descendants", len(removed)))
	}
	s.forget(append([]int64{n.ID}, removed...)...)
	s.publisher.Publish(domain.NoteEvent{Type: domain.NoteEventDelete, ID: n.ID, ParentID: n.ParentID, Removed: removed})
	return s.toDTO(n), nil
}

// Move 修改父节点
// newParentID 为 nil 或 0 表示移到根
func (s *noteService) Move(ctx context.Context, id int64, newParentID *int64) (*dto.NoteDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	var parentID *int64
	if newParentID != nil {
		parentID = domain.ParentRef(*newParentID)
	}

	n, err := s.noteRepo.Move(ctx, id, parentID)
	s.observe("move", err)
	if err != nil {
		return nil, toCode(err)
	}
	s.forget(n.ID)
	s.publisher.Publish(domain.NoteEvent{Type: domain.NoteEventMove, ID: n.ID, ParentID: n.ParentID})
	return s.toDTO(n), nil
}

// Path 面包屑
func (s *noteService) Path(ctx context.Context, id int64) ([]*dto.BreadcrumbDTO, error) {
	if id <= 0 {
		return nil, code.ErrorInvalidNoteID
	}
	chain, err := s.noteRepo.Ancestors(ctx, id)
	if err != nil {
		return nil, toCode(err)
	}
	out := make([]*dto.BreadcrumbDTO, 0, len(chain))
	for _, n := range chain {
		out = append(out, &dto.BreadcrumbDTO{ID: n.ID, Name: n.Name})
	}
	return out, nil
}

// resolvePath 从根开始逐段匹配名称，同名兄弟取 ID 最小者
func (s *noteService) resolvePath(ctx context.Context, path string) (*domain.Note, error) {
	segments := tree.SplitPath(path)
	if len(segments) == 0 {
		return nil, code.ErrorInvalidParams.WithDetails("path is required")
	}

	var parentID *int64
	var found *domain.Note
	for _, seg := range segments {
		children, err := s.noteRepo.ListByParent(ctx, parentID)
		if err != nil {
			return nil, toCode(err)
		}
		found = nil
		for _, c := range children {
			if c.Name == seg && (found == nil || c.ID < found.ID) {
				found = c
			}
		}
		if found == nil {
			return nil, code.ErrorNotePathNotFound.WithDetails(path)
		}
		id := found.ID
		parentID = &id
	}
	return found, nil
}

// ByPath 按名称路径定位笔记
func (s *noteService) ByPath(ctx context.Context, path string) (*dto.NoteDTO, error) {
	n, err := s.resolvePath(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.toDTO(n), nil
}

// ChildrenByPath 按名称路径列出子笔记
func (s *noteService) ChildrenByPath(ctx context.Context, path string) ([]*dto.NoteDTO, error) {
	if len(tree.SplitPath(path)) == 0 {
		return s.Children(ctx, nil)
	}
	n, err := s.resolvePath(ctx, path)
	if err != nil {
		return nil, err
	}
	id := n.ID
	return s.Children(ctx, &id)
}

// Tree 构建目录树
func (s *noteService) Tree(ctx context.Context) ([]*tree.Node, error) {
	notes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Build(notes), nil
}

// CountOrphans 统计悬空父引用
func (s *noteService) CountOrphans(ctx context.Context) (int64, error) {
	n, err := s.noteRepo.CountOrphans(ctx)
	if err != nil {
		return 0, toCode(err)
	}
	return n, nil
}
