package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/note-tree-service/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestDao 创建基于内存 SQLite 的 Dao
// 单连接保证 :memory: 库在测试期间不被回收
func newTestDao(t testing.TB) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	wq := writequeue.New(nil, zap.NewNop())
	d := New(db, WithLogger(zap.NewNop()), WithWriteQueueManager(wq))
	require.NoError(t, d.AutoMigrate())

	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		_ = d.Close()
	})
	return d
}

func TestNewDBEngineWithConfig_UnsupportedType(t *testing.T) {
	_, err := NewDBEngineWithConfig(DatabaseConfig{Type: "oracle"}, nil)
	require.Error(t, err)
}

func TestDao_Ping(t *testing.T) {
	d := newTestDao(t)
	require.NoError(t, d.Ping(context.Background()))
}

func TestSqliteDSN(t *testing.T) {
	require.Equal(t, ":memory:", sqliteDSN(":memory:"))
	require.Equal(t, "file:x?mode=memory", sqliteDSN("file:x?mode=memory"))

	path := t.TempDir() + "/db/notes.sqlite3"
	require.Contains(t, sqliteDSN(path), "journal_mode(WAL)")
}
