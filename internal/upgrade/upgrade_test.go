package upgrade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func noteTable(t *testing.T, db *gorm.DB) string {
	t.Helper()
	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(&model.Note{}))
	return stmt.Schema.Table
}

func TestExecute_AppliesNoteIndexes(t *testing.T) {
	db := newTestDB(t)
	ref := filepath.Join(t.TempDir(), "lastVersion")

	require.NoError(t, Execute(db, zap.NewNop(), "0.1.0", ref))

	table := noteTable(t, db)
	assert.True(t, db.Migrator().HasIndex(&model.Note{}, NoteIndexName(table, "parent_id")))
	assert.True(t, db.Migrator().HasIndex(&model.Note{}, NoteIndexName(table, "name")))

	var records []SchemaVersion
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "0.1.0", records[0].Version)

	saved, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", string(saved))

	// 相同版本再次启动直接跳过
	require.NoError(t, Execute(db, zap.NewNop(), "0.1.0", ref))
	require.NoError(t, db.Find(&records).Error)
	assert.Len(t, records, 1)
}

func TestExecute_SkipsOlderScripts(t *testing.T) {
	db := newTestDB(t)
	ref := filepath.Join(t.TempDir(), "lastVersion")
	require.NoError(t, os.WriteFile(ref, []byte("v0.1.0\n"), 0644))

	require.NoError(t, Execute(db, zap.NewNop(), "0.2.0", ref))

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.Zero(t, count)

	saved, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", string(saved))
}

func TestNoteIndexMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, model.AutoMigrate(db, ""))

	m := &NoteIndexMigrate{}
	require.NoError(t, m.Up(db, context.Background()))
	require.NoError(t, m.Up(db, context.Background()))
}

func TestExecute_RequiresDeps(t *testing.T) {
	assert.Error(t, Execute(nil, zap.NewNop(), "0.1.0", ""))
	assert.Error(t, Execute(newTestDB(t), nil, "0.1.0", ""))
}
