package upgrade

import (
	"context"

	"github.com/haierkeys/note-tree-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteIndexMigrate 为按父笔记查询和名称搜索补充索引
type NoteIndexMigrate struct{}

func (m *NoteIndexMigrate) Version() string {
	return "0.1.0"
}

func (m *NoteIndexMigrate) Description() string {
	return "Add parent_id and name indexes to note table"
}

// Up 执行升级，索引已存在时跳过
func (m *NoteIndexMigrate) Up(db *gorm.DB, ctx context.Context) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model.Note{}); err != nil {
		return err
	}
	table := stmt.Schema.Table

	for _, column := range []string{"parent_id", "name"} {
		name := NoteIndexName(table, column)
		if db.Migrator().HasIndex(&model.Note{}, name) {
			continue
		}
		err := db.WithContext(ctx).Exec("CREATE INDEX ? ON ? (?)",
			clause.Column{Name: name}, clause.Table{Name: table}, clause.Column{Name: column}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// NoteIndexName 索引名包含表名，避免表前缀不同的实例之间冲突
func NoteIndexName(table, column string) string {
	return "idx_" + table + "_" + column
}
