package editor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type notFoundError struct{}

func (notFoundError) Error() string  { return "not found" }
func (notFoundError) NotFound() bool { return true }

var errNotFound error = notFoundError{}

type fakeAPI struct {
	notes     map[int64]*dto.NoteDTO
	calls     []string
	failSave  bool
	failDel   bool
	lastSaved string
}

func newFakeAPI(notes ...*dto.NoteDTO) *fakeAPI {
	f := &fakeAPI{notes: map[int64]*dto.NoteDTO{}}
	for _, n := range notes {
		f.notes[n.ID] = n
	}
	return f
}

func (f *fakeAPI) GetNote(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	f.calls = append(f.calls, "get")
	n, ok := f.notes[id]
	if !ok {
		return nil, errNotFound
	}
	c := *n
	return &c, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, id int64, name, content string) (*dto.NoteDTO, error) {
	f.calls = append(f.calls, "update")
	if f.failSave {
		return nil, errors.New("network down")
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, errNotFound
	}
	n.Name, n.Content = name, content
	f.lastSaved = content
	c := *n
	return &c, nil
}

func (f *fakeAPI) DeleteNote(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	f.calls = append(f.calls, "delete")
	if f.failDel {
		return nil, errors.New("network down")
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, errNotFound
	}
	// 级联删除后代
	removed := map[int64]bool{id: true}
	for changed := true; changed; {
		changed = false
		for nid, c := range f.notes {
			if !removed[nid] && c.ParentID != nil && removed[*c.ParentID] {
				removed[nid] = true
				changed = true
			}
		}
	}
	for nid := range removed {
		delete(f.notes, nid)
	}
	return n, nil
}

func newTestSession(t *testing.T, api API) (*Session, *MemoryEditor, *MemoryCache) {
	ed := &MemoryEditor{}
	cache := &MemoryCache{}
	return NewSession(api, ed, cache, zaptest.NewLogger(t)), ed, cache
}

func TestSession_SaveThenOpen(t *testing.T) {
	api := newFakeAPI(
		&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"},
		&dto.NoteDTO{ID: 2, Name: "B", Content: "b0"},
	)
	s, ed, cache := newTestSession(t, api)
	ctx := context.Background()

	require.NotNil(t, s.OpenNote(ctx, 1))
	require.NoError(t, ed.SetContent("a1 pending"))
	assert.True(t, s.Dirty())

	opened := s.OpenNote(ctx, 2)
	require.NotNil(t, opened)
	assert.Equal(t, int64(2), opened.ID)

	// A 的修改先于 B 的加载被保存
	assert.Equal(t, []string{"get", "update", "get"}, api.calls)
	assert.Equal(t, "a1 pending", api.notes[1].Content)

	content, _ := ed.Content()
	assert.Equal(t, "b0", content)
	p, _ := cache.Load()
	require.NotNil(t, p)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, StateOpen, s.State())
}

func TestSession_OpenMissingKeepsState(t *testing.T) {
	api := newFakeAPI(&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"})
	s, ed, _ := newTestSession(t, api)
	ctx := context.Background()

	assert.Nil(t, s.OpenNote(ctx, 42))
	assert.Equal(t, StateIdle, s.State())

	require.NotNil(t, s.OpenNote(ctx, 1))
	assert.Nil(t, s.OpenNote(ctx, 42))
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, int64(1), s.Current().ID)
	content, _ := ed.Content()
	assert.Equal(t, "a0", content)
}

func TestSession_SaveFailureDoesNotBlockOpen(t *testing.T) {
	api := newFakeAPI(
		&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"},
		&dto.NoteDTO{ID: 2, Name: "B", Content: "b0"},
	)
	s, _, _ := newTestSession(t, api)
	ctx := context.Background()

	require.NotNil(t, s.OpenNote(ctx, 1))
	api.failSave = true
	require.NotNil(t, s.OpenNote(ctx, 2))
	assert.Equal(t, int64(2), s.Current().ID)
}

func TestSession_SaveNote(t *testing.T) {
	api := newFakeAPI(&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"})
	s, ed, _ := newTestSession(t, api)
	ctx := context.Background()

	assert.Nil(t, s.SaveNote(ctx), "idle save is a no-op")
	assert.Empty(t, api.calls)

	require.NotNil(t, s.OpenNote(ctx, 1))
	require.NoError(t, ed.SetContent("<p>edited</p>"))
	saved := s.SaveNote(ctx)
	require.NotNil(t, saved)
	assert.Equal(t, "<p>edited</p>", saved.Content)
	assert.Equal(t, "A", saved.Name)
	assert.False(t, s.Dirty())

	api.failSave = true
	assert.Nil(t, s.SaveNote(ctx))
	assert.Equal(t, StateOpen, s.State())
}

func TestSession_RemoveNote(t *testing.T) {
	api := newFakeAPI(
		&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"},
		&dto.NoteDTO{ID: 2, Name: "B", Content: "b0"},
	)
	s, ed, cache := newTestSession(t, api)
	ctx := context.Background()

	require.NotNil(t, s.OpenNote(ctx, 1))

	// 删除其它笔记不影响当前状态
	assert.True(t, s.RemoveNote(ctx, 2))
	assert.Equal(t, StateOpen, s.State())
	assert.True(t, s.TakeTreeStale())
	assert.False(t, s.TakeTreeStale())

	assert.True(t, s.RemoveNote(ctx, 1))
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Current())
	content, _ := ed.Content()
	assert.Empty(t, content)
	p, _ := cache.Load()
	assert.Nil(t, p)

	assert.False(t, s.RemoveNote(ctx, 1))
	api.failDel = true
	assert.False(t, s.RemoveNote(ctx, 3))
}

func TestSession_RemoveAncestorClosesOpenNote(t *testing.T) {
	parent := int64(1)
	api := newFakeAPI(
		&dto.NoteDTO{ID: 1, Name: "Projects", Content: "p"},
		&dto.NoteDTO{ID: 2, Name: "Go", ParentID: &parent, Content: "g"},
	)
	s, ed, cache := newTestSession(t, api)
	ctx := context.Background()

	require.NotNil(t, s.OpenNote(ctx, 2))
	assert.True(t, s.RemoveNote(ctx, 1))

	assert.Equal(t, StateIdle, s.State())
	content, _ := ed.Content()
	assert.Empty(t, content)
	p, _ := cache.Load()
	assert.Nil(t, p)
}

func TestSession_Close(t *testing.T) {
	api := newFakeAPI(&dto.NoteDTO{ID: 1, Name: "A", Content: "a0"})
	s, ed, _ := newTestSession(t, api)
	ctx := context.Background()

	assert.True(t, s.Close(ctx))
	require.NotNil(t, s.OpenNote(ctx, 1))
	require.NoError(t, ed.SetContent("final"))

	api.failSave = true
	assert.False(t, s.Close(ctx))
	assert.Equal(t, StateOpen, s.State())

	api.failSave = false
	assert.True(t, s.Close(ctx))
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "final", api.lastSaved)
}

func TestSession_RestoreKeepsPendingBuffer(t *testing.T) {
	dir := t.TempDir()
	api := newFakeAPI(&dto.NoteDTO{ID: 7, Name: "Draft", Content: "server"})
	buffer := &FileBuffer{Path: filepath.Join(dir, "buffer.html")}
	cache := &FileCache{Path: filepath.Join(dir, "current.json")}
	ctx := context.Background()

	first := NewSession(api, buffer, cache, zaptest.NewLogger(t))
	require.NotNil(t, first.OpenNote(ctx, 7))
	require.NoError(t, buffer.SetContent("local edits"))

	// 新进程恢复会话后保存本地修改
	second := NewSession(api, buffer, cache, zaptest.NewLogger(t))
	restored := second.Restore(ctx)
	require.NotNil(t, restored)
	assert.Equal(t, int64(7), restored.ID)
	assert.True(t, second.Dirty())

	saved := second.SaveNote(ctx)
	require.NotNil(t, saved)
	assert.Equal(t, "local edits", saved.Content)
}

func TestSession_RestoreWithoutPointer(t *testing.T) {
	s, _, _ := newTestSession(t, newFakeAPI())
	assert.Nil(t, s.Restore(context.Background()))
	assert.Equal(t, StateIdle, s.State())
}

func TestFileCache_RoundTrip(t *testing.T) {
	c := &FileCache{Path: filepath.Join(t.TempDir(), "nested", "p.json")}
	p, err := c.Load()
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, c.Save(Pointer{ID: 3}))
	p, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)

	require.NoError(t, c.Clear())
	require.NoError(t, c.Clear())
}

func TestDiffStat(t *testing.T) {
	ins, del := diffStat("hello world", "hello brave world")
	assert.Equal(t, 6, ins)
	assert.Equal(t, 0, del)

	ins, del = diffStat("same", "same")
	assert.Zero(t, ins)
	assert.Zero(t, del)
}
