package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr(v int64) *int64 { return &v }

func newTestNoteRepo(t *testing.T) domain.NoteRepository {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	wq := writequeue.New(nil, zap.NewNop())
	d := dao.New(db, dao.WithLogger(zap.NewNop()), dao.WithWriteQueueManager(wq))
	require.NoError(t, d.AutoMigrate())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		_ = d.Close()
	})
	return dao.NewNoteRepository(d)
}

func newTestNoteService(t *testing.T) (NoteService, *EventHub) {
	hub := NewEventHub(16, zap.NewNop())
	t.Cleanup(hub.Close)
	return NewNoteService(newTestNoteRepo(t), hub, zap.NewNop()), hub
}

func mustCreate(t *testing.T, svc NoteService, name string, parent *int64) *dto.NoteDTO {
	t.Helper()
	n, err := svc.Create(context.Background(), &dto.NoteCreateRequest{Name: name, ParentID: parent, Content: "<p>" + name + "</p>"})
	require.NoError(t, err)
	return n
}

func TestNoteService_CreateDefaults(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{Name: "Inbox", ParentID: ptr(0)})
	require.NoError(t, err)
	assert.Nil(t, n.ParentID, "parentId 0 means root")
	assert.Equal(t, domain.DefaultNoteContent, n.Content)

	_, err = svc.Create(ctx, &dto.NoteCreateRequest{Name: "  "})
	assert.ErrorIs(t, err, code.ErrorNoteNameRequired)
}

func TestNoteService_RoundTrip(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	parent := mustCreate(t, svc, "Projects", nil)
	created := mustCreate(t, svc, "Roadmap", &parent.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Content, got.Content)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
}

func TestNoteService_NotFoundAndInvalidID(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 999)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = svc.Update(ctx, 999, &dto.NoteUpdateRequest{Name: "x", Content: new(string)})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = svc.Delete(ctx, 999)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = svc.Move(ctx, 999, nil)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, code.ErrorInvalidNoteID)
}

func TestNoteService_MoveRejectsCycle(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "A", nil)
	b := mustCreate(t, svc, "B", &a.ID)
	c := mustCreate(t, svc, "C", &b.ID)

	_, err := svc.Move(ctx, a.ID, &c.ID)
	require.ErrorIs(t, err, code.ErrorNoteCycle)
	var cc *code.Code
	require.True(t, errors.As(err, &cc))
	assert.Equal(t, 409, cc.StatusCode())

	_, err = svc.Move(ctx, a.ID, &a.ID)
	assert.ErrorIs(t, err, code.ErrorNoteCycle)

	// 0 表示移到根
	moved, err := svc.Move(ctx, c.ID, ptr(0))
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestNoteService_DeleteCascadePublishesEvent(t *testing.T) {
	svc, hub := newTestNoteService(t)
	ctx := context.Background()

	r := mustCreate(t, svc, "R", nil)
	c1 := mustCreate(t, svc, "C1", &r.ID)
	g1 := mustCreate(t, svc, "G1", &c1.ID)

	events, cancel := hub.Subscribe()
	defer cancel()

	deleted, err := svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "R", deleted.Name)

	ev := <-events
	assert.Equal(t, domain.NoteEventDelete, ev.Type)
	assert.Equal(t, r.ID, ev.ID)
	assert.ElementsMatch(t, []int64{c1.ID, g1.ID}, ev.Removed)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNoteService_SearchRequiresQuery(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Groceries", nil)
	mustCreate(t, svc, "Grocery list", nil)
	mustCreate(t, svc, "Work", nil)

	_, err := svc.Search(ctx, "")
	assert.ErrorIs(t, err, code.ErrorSearchQueryRequired)

	found, err := svc.Search(ctx, "Grocer")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestNoteService_RenameKeepsContent(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()
	n := mustCreate(t, svc, "Old", nil)

	renamed, err := svc.Rename(ctx, n.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)
	assert.Equal(t, n.Content, renamed.Content)
}

func TestNoteService_PathAndByPath(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "a", nil)
	b := mustCreate(t, svc, "b", &a.ID)
	c := mustCreate(t, svc, "c", &b.ID)
	// 同名兄弟，ID 较大者不会被选中
	mustCreate(t, svc, "b", &a.ID)

	crumbs, err := svc.Path(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{crumbs[0].Name, crumbs[1].Name, crumbs[2].Name})

	got, err := svc.ByPath(ctx, "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.ByPath(ctx, "a/missing")
	assert.ErrorIs(t, err, code.ErrorNotePathNotFound)

	_, err = svc.ByPath(ctx, "")
	assert.ErrorIs(t, err, code.ErrorInvalidParams)

	children, err := svc.ChildrenByPath(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	roots, err := svc.ChildrenByPath(ctx, "")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, a.ID, roots[0].ID)
}

func TestNoteService_Tree(t *testing.T) {
	svc, _ := newTestNoteService(t)
	ctx := context.Background()

	zebra := mustCreate(t, svc, "Zebra", nil)
	apple := mustCreate(t, svc, "apple", nil)
	mustCreate(t, svc, "seed", &apple.ID)
	orphan := mustCreate(t, svc, "lost", ptr(4242))

	nodes, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, apple.ID, nodes[0].ID)
	ids := []int64{nodes[1].ID, nodes[2].ID}
	assert.ElementsMatch(t, []int64{zebra.ID, orphan.ID}, ids)

	n, err := svc.CountOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// failingNoteRepo 所有被调用的方法都返回同一错误
type failingNoteRepo struct {
	domain.NoteRepository
	err error
}

func (r *failingNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	return nil, r.err
}

func (r *failingNoteRepo) Move(ctx context.Context, id int64, newParentID *int64) (*domain.Note, error) {
	return nil, r.err
}

func TestNoteService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *code.Code
	}{
		{"not found", domain.ErrNoteNotFound, code.ErrorNoteNotFound},
		{"cycle", domain.ErrCycle, code.ErrorNoteCycle},
		{"queue full", domain.NewStoreError("move note", writequeue.ErrWriteQueueFull), code.ErrorWriteQueue},
		{"store", domain.NewStoreError("get note", errors.New("disk I/O error")), code.ErrorDBQuery},
		{"validation", domain.NewValidationError("name", "blank"), code.ErrorInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNoteService(&failingNoteRepo{err: tt.err}, nil, nil)
			_, err := svc.Move(context.Background(), 1, nil)
			assert.ErrorIs(t, err, tt.want)
			_, err = svc.Get(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNoteService_ConcurrentGet(t *testing.T) {
	svc, _ := newTestNoteService(t)
	n := mustCreate(t, svc, "shared", nil)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got, err := svc.Get(context.Background(), n.ID)
			if err == nil && got.Name != "shared" {
				err = fmt.Errorf("unexpected name %q", got.Name)
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}

// blockingNoteRepo 首次 GetByID 读取后阻塞，直到 release 关闭
type blockingNoteRepo struct {
	domain.NoteRepository
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newBlockingNoteRepo(inner domain.NoteRepository) *blockingNoteRepo {
	return &blockingNoteRepo{
		NoteRepository: inner,
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (r *blockingNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	n, err := r.NoteRepository.GetByID(ctx, id)
	first := false
	r.once.Do(func() { first = true })
	if !first {
		return n, err
	}
	close(r.started)
	select {
	case <-r.release:
		return n, err
	case <-ctx.Done():
		return nil, domain.NewStoreError("get note", ctx.Err())
	}
}

func TestNoteService_CancelledReaderDoesNotFailSharedRead(t *testing.T) {
	repo := newBlockingNoteRepo(newTestNoteRepo(t))
	svc := NewNoteService(repo, nil, zap.NewNop())
	n := mustCreate(t, svc, "shared", nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctxA, n.ID)
		errA <- err
	}()
	<-repo.started

	type result struct {
		note *dto.NoteDTO
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		got, err := svc.Get(context.Background(), n.ID)
		resB <- result{got, err}
	}()
	// 等待 B 加入进行中的查询
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.Error(t, <-errA)

	close(repo.release)
	r := <-resB
	require.NoError(t, r.err)
	assert.Equal(t, "shared", r.note.Name)
}

func TestNoteService_GetAfterUpdateSeesNewContent(t *testing.T) {
	repo := newBlockingNoteRepo(newTestNoteRepo(t))
	svc := NewNoteService(repo, nil, zap.NewNop())
	ctx := context.Background()
	n := mustCreate(t, svc, "draft", nil)

	// 更新前开始的读取停在查询中
	stale := make(chan *dto.NoteDTO, 1)
	go func() {
		got, _ := svc.Get(ctx, n.ID)
		stale <- got
	}()
	<-repo.started

	content := "<p>saved</p>"
	_, err := svc.Update(ctx, n.ID, &dto.NoteUpdateRequest{Name: "draft", Content: &content})
	require.NoError(t, err)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)

	close(repo.release)
	assert.Equal(t, "<p>draft</p>", (<-stale).Content)
}
