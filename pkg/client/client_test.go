package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/internal/editor"
	"github.com/haierkeys/note-tree-service/internal/routers"
	"github.com/haierkeys/note-tree-service/pkg/validator"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ editor.API = (*Client)(nil)

type testEnv struct {
	client *Client
	moves  *atomic.Int32
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Tracer.Enabled = false
	cfg.Limiter.Enabled = false
	cfg.Server.RunMode = gin.TestMode
	cfg.Security.AuthToken = token

	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	uni, err := validator.Setup()
	require.NoError(t, err)

	engine := routers.NewRouter(a, uni)
	moves := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/move") {
			moves.Add(1)
		}
		engine.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		srv.Close()
		_ = a.Shutdown(context.Background())
	})

	return &testEnv{client: New(srv.URL, WithToken(token)), moves: moves}
}

func TestClient_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t, "")
	c := env.client
	ctx := context.Background()

	root, err := c.CreateNote(ctx, "Root", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "This is a new note", root.Content)
	assert.Nil(t, root.ParentID)

	child, err := c.CreateNote(ctx, "Child", &root.ID, "<p>x</p>")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	updated, err := c.UpdateNote(ctx, child.ID, "Child2", "")
	require.NoError(t, err)
	assert.Equal(t, "", updated.Content)

	renamed, err := c.RenameNote(ctx, child.ID, "Kid")
	require.NoError(t, err)
	assert.Equal(t, "Kid", renamed.Name)

	roots, err := c.Children(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	kids, err := c.ChildrenByPath(ctx, "Root")
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "Kid", kids[0].Name)

	byPath, err := c.ByPath(ctx, "Root/Kid")
	require.NoError(t, err)
	assert.Equal(t, child.ID, byPath.ID)

	found, err := c.Search(ctx, "ki")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	forest, err := c.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Len(t, forest[0].Children, 1)

	crumbs, err := c.Path(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Root", crumbs[0].Name)

	deleted, err := c.DeleteNote(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, deleted.ID)

	_, err = c.GetNote(ctx, child.ID)
	assert.True(t, IsNotFound(err))

	all, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClient_MoveDropGuard(t *testing.T) {
	env := newTestEnv(t, "")
	c := env.client
	ctx := context.Background()

	a, err := c.CreateNote(ctx, "A", nil, "")
	require.NoError(t, err)
	b, err := c.CreateNote(ctx, "B", &a.ID, "")
	require.NoError(t, err)

	_, err = c.MoveNote(ctx, a.ID, &b.ID)
	assert.ErrorIs(t, err, ErrInvalidDrop)
	_, err = c.MoveNote(ctx, a.ID, &a.ID)
	assert.ErrorIs(t, err, ErrInvalidDrop)
	assert.Zero(t, env.moves.Load())

	moved, err := c.MoveNote(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, int32(1), env.moves.Load())
}

func TestClient_Errors(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.client.Search(ctx, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Search query is required", apiErr.Message)

	_, err = env.client.GetImage(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, err = env.client.Backup(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestClient_Token(t *testing.T) {
	env := newTestEnv(t, "secret")
	ctx := context.Background()

	_, err := env.client.ListNotes(ctx)
	require.NoError(t, err)

	anonymous := New(strings.TrimSuffix(env.client.base, "/"))
	_, err = anonymous.ListNotes(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_ImageRoundTrip(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	img, err := env.client.UploadImage(ctx, "a.png", "image/png", "aGVsbG8=")
	require.NoError(t, err)
	assert.NotEmpty(t, img.ID)

	got, err := env.client.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.Filename)
	assert.Equal(t, "aGVsbG8=", got.Data)
}

func TestClient_DrivesEditorSession(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	n, err := env.client.CreateNote(ctx, "Doc", nil, "<p>v1</p>")
	require.NoError(t, err)

	buf := &editor.MemoryEditor{}
	s := editor.NewSession(env.client, buf, &editor.MemoryCache{}, zap.NewNop())
	require.NotNil(t, s.OpenNote(ctx, n.ID))

	content, _ := buf.Content()
	assert.Equal(t, "<p>v1</p>", content)

	require.NoError(t, buf.SetContent("<p>v2</p>"))
	require.NotNil(t, s.SaveNote(ctx))

	got, err := env.client.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>v2</p>", got.Content)

	// 级联删除打开笔记的祖先后会话关闭
	child, err := env.client.CreateNote(ctx, "Child", &n.ID, "<p>c</p>")
	require.NoError(t, err)
	require.NotNil(t, s.OpenNote(ctx, child.ID))
	assert.True(t, s.RemoveNote(ctx, n.ID))
	assert.Equal(t, editor.StateIdle, s.State())
}

func TestClient_MoveUnderMissingParent(t *testing.T) {
	env := newTestEnv(t, "")
	c := env.client
	ctx := context.Background()

	n, err := c.CreateNote(ctx, "loose", nil, "")
	require.NoError(t, err)

	// 父笔记不存在时由服务端决定，笔记成为孤儿
	missing := int64(999)
	moved, err := c.MoveNote(ctx, n.ID, &missing)
	require.NoError(t, err)
	if assert.NotNil(t, moved.ParentID) {
		assert.Equal(t, missing, *moved.ParentID)
	}
	assert.Equal(t, int32(1), env.moves.Load())
}
