// Package editor 管理当前打开的笔记：打开、保存、删除
// 每个会话持有独立的状态对象，不依赖全局变量
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/haierkeys/note-tree-service/internal/dto"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

// State 会话状态
type State int

const (
	// StateIdle 没有打开的笔记
	StateIdle State = iota
	// StateOpen 有笔记加载在编辑器中
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "idle"
}

// API 会话使用的笔记操作
type API interface {
	GetNote(ctx context.Context, id int64) (*dto.NoteDTO, error)
	UpdateNote(ctx context.Context, id int64, name, content string) (*dto.NoteDTO, error)
	DeleteNote(ctx context.Context, id int64) (*dto.NoteDTO, error)
}

// notFound 由 API 的错误类型实现，用于区分笔记已不存在和请求失败
type notFound interface {
	NotFound() bool
}

func isNotFound(err error) bool {
	var nf notFound
	return errors.As(err, &nf) && nf.NotFound()
}

// Editor 富文本编辑器边界，内容为序列化后的 HTML
type Editor interface {
	Content() (string, error)
	SetContent(html string) error
}

// Pointer 当前笔记指针
type Pointer struct {
	ID int64 `json:"id"`
}

// Cache 本地非持久化的当前笔记指针缓存
// Load 在没有指针时返回 nil, nil
type Cache interface {
	Load() (*Pointer, error)
	Save(p Pointer) error
	Clear() error
}

// Session 编辑会话
// 所有操作失败时记录日志并返回 nil 或 false，不向调用方返回错误
type Session struct {
	api    API
	editor Editor
	cache  Cache
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	current   *dto.NoteDTO
	baseline  string
	treeStale bool
}

// NewSession 创建会话，初始为 Idle
func NewSession(api API, editor Editor, cache Cache, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		api:    api,
		editor: editor,
		cache:  cache,
		logger: logger,
		state:  StateIdle,
	}
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current 返回当前笔记的副本，Idle 时为 nil
func (s *Session) Current() *dto.NoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}

// OpenNote 打开笔记
// 先保存当前笔记，保存失败只记录日志；目标不存在时保持原状态并返回 nil
func (s *Session) OpenNote(ctx context.Context, id int64) *dto.NoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		if _, err := s.saveLocked(ctx); err != nil {
			s.logger.Warn("save before open failed",
				zap.Int64("noteId", s.current.ID),
				zap.Int64("target", id),
				zap.Error(err))
		}
	}

	note, err := s.api.GetNote(ctx, id)
	if err != nil {
		s.logger.Error("open note failed", zap.Int64("noteId", id), zap.Error(err))
		return nil
	}
	if err := s.editor.SetContent(note.Content); err != nil {
		s.logger.Error("load note into editor failed", zap.Int64("noteId", id), zap.Error(err))
		return nil
	}

	s.state = StateOpen
	s.current = note
	s.baseline = note.Content
	if s.cache != nil {
		if err := s.cache.Save(Pointer{ID: note.ID}); err != nil {
			s.logger.Warn("persist current note pointer failed", zap.Int64("noteId", id), zap.Error(err))
		}
	}
	n := *note
	return &n
}

// SaveNote 保存当前笔记，Idle 时返回 nil
func (s *Session) SaveNote(ctx context.Context) *dto.NoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return nil
	}
	saved, err := s.saveLocked(ctx)
	if err != nil {
		s.logger.Error("save note failed", zap.Int64("noteId", s.current.ID), zap.Error(err))
		return nil
	}
	n := *saved
	return &n
}

func (s *Session) saveLocked(ctx context.Context) (*dto.NoteDTO, error) {
	content, err := s.editor.Content()
	if err != nil {
		return nil, err
	}

	ins, del := diffStat(s.baseline, content)
	saved, err := s.api.UpdateNote(ctx, s.current.ID, s.current.Name, content)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note saved",
		zap.Int64("noteId", saved.ID),
		zap.Int("inserted", ins),
		zap.Int("deleted", del))

	s.current = saved
	s.baseline = saved.Content
	return saved, nil
}

// RemoveNote 删除笔记，删除的是当前笔记时清空编辑器并回到 Idle
// 当前笔记是被删除笔记的后代时同样随级联删除关闭
func (s *Session) RemoveNote(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.api.DeleteNote(ctx, id); err != nil {
		s.logger.Error("remove note failed", zap.Int64("noteId", id), zap.Error(err))
		return false
	}
	s.treeStale = true

	if s.state != StateOpen {
		return true
	}
	if s.current.ID != id {
		_, err := s.api.GetNote(ctx, s.current.ID)
		if err == nil {
			return true
		}
		if !isNotFound(err) {
			s.logger.Warn("check open note after remove failed", zap.Int64("noteId", s.current.ID), zap.Error(err))
			return true
		}
		s.logger.Info("open note removed with its ancestor",
			zap.Int64("noteId", s.current.ID),
			zap.Int64("removedId", id))
	}
	if err := s.editor.SetContent(""); err != nil {
		s.logger.Warn("clear editor failed", zap.Int64("noteId", id), zap.Error(err))
	}
	s.resetLocked()
	return true
}

// Close 保存当前笔记后回到 Idle，保存失败时保持打开并返回 false
func (s *Session) Close(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return true
	}
	if _, err := s.saveLocked(ctx); err != nil {
		s.logger.Error("save on close failed", zap.Int64("noteId", s.current.ID), zap.Error(err))
		return false
	}
	if err := s.editor.SetContent(""); err != nil {
		s.logger.Warn("clear editor failed", zap.Error(err))
	}
	s.resetLocked()
	return true
}

// Restore 按缓存指针恢复会话，用于进程重启后继续编辑
// 编辑器已有内容时保留，视为未保存的修改；为空时加载笔记内容
func (s *Session) Restore(ctx context.Context) *dto.NoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		n := *s.current
		return &n
	}
	if s.cache == nil {
		return nil
	}
	p, err := s.cache.Load()
	if err != nil {
		s.logger.Warn("load current note pointer failed", zap.Error(err))
		return nil
	}
	if p == nil {
		return nil
	}

	note, err := s.api.GetNote(ctx, p.ID)
	if err != nil {
		s.logger.Error("restore note failed", zap.Int64("noteId", p.ID), zap.Error(err))
		return nil
	}
	content, err := s.editor.Content()
	if err != nil {
		s.logger.Error("read editor failed", zap.Int64("noteId", p.ID), zap.Error(err))
		return nil
	}
	if content == "" {
		if err := s.editor.SetContent(note.Content); err != nil {
			s.logger.Error("load note into editor failed", zap.Int64("noteId", p.ID), zap.Error(err))
			return nil
		}
	}

	s.state = StateOpen
	s.current = note
	s.baseline = note.Content
	n := *note
	return &n
}

// Dirty 编辑器内容与最近一次加载或保存的内容是否不同
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return false
	}
	content, err := s.editor.Content()
	if err != nil {
		return false
	}
	return content != s.baseline
}

// MarkTreeStale 标记目录树需要刷新，收到变更事件时调用
func (s *Session) MarkTreeStale() {
	s.mu.Lock()
	s.treeStale = true
	s.mu.Unlock()
}

// TakeTreeStale 读取并清除目录树过期标记
func (s *Session) TakeTreeStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stale := s.treeStale
	s.treeStale = false
	return stale
}

func (s *Session) resetLocked() {
	s.state = StateIdle
	s.current = nil
	s.baseline = ""
	if s.cache != nil {
		if err := s.cache.Clear(); err != nil {
			s.logger.Warn("clear current note pointer failed", zap.Error(err))
		}
	}
}

// diffStat 统计插入与删除的字符数
func diffStat(before, after string) (inserted, deleted int) {
	if before == after {
		return 0, 0
	}
	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(before, after, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len([]rune(d.Text))
		}
	}
	return inserted, deleted
}
