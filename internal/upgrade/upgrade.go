package upgrade

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/model"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// defaultReferenceVersion 没有版本记录文件时的基准版本
const defaultReferenceVersion = "v0.0.0"

// SchemaVersion 数据库版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}

// Migration 定义升级接口
type Migration interface {
	Version() string
	Description() string
	Up(db *gorm.DB, ctx context.Context) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	version    string
	refPath    string
	migrations []Migration
}

// NewMigrationManager 创建升级管理器
// version 为当前运行版本，refPath 为上次运行版本的记录文件
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, version, refPath string) *MigrationManager {
	return &MigrationManager{
		db:      db,
		logger:  logger,
		version: version,
		refPath: refPath,
		migrations: []Migration{
			// 在这里注册所有的升级脚本
			&NoteIndexMigrate{},
		},
	}
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Run 执行升级
func (m *MigrationManager) Run(ctx context.Context) error {
	m.logger.Info("Migration started")
	if err := model.AutoMigrate(m.db, ""); err != nil {
		return pkgerrors.Wrap(err, "failed to auto migrate models")
	}

	// 确保 schema_version 表存在
	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return pkgerrors.Wrap(err, "failed to create schema_version table")
	}

	appliedVersions, err := m.getAppliedVersions()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to get applied versions")
	}

	lastVersion := normalize(m.getReferenceVersion())
	if !semver.IsValid(lastVersion) {
		m.logger.Warn("reference version is not a valid semver, using "+defaultReferenceVersion, zap.String("lastVersion", lastVersion))
		lastVersion = defaultReferenceVersion
	}

	// 当前版本不比上次运行的版本新时跳过，避免每次重启重复检查
	runningVersion := normalize(m.version)
	if semver.Compare(runningVersion, lastVersion) <= 0 {
		m.logger.Info("skipping upgrade", zap.String("runningVersion", runningVersion), zap.String("lastVersion", lastVersion))
		return nil
	}

	executed := 0
	for _, migration := range m.migrations {
		scriptVersion := normalize(migration.Version())

		// 脚本版本 <= lastVersion 的已在之前的版本执行过
		if semver.IsValid(scriptVersion) && semver.Compare(scriptVersion, lastVersion) <= 0 {
			m.logger.Debug("skip migration <= lastVersion",
				zap.String("scriptVersion", scriptVersion),
				zap.String("lastVersion", lastVersion))
			continue
		}
		// 高于当前运行版本的脚本不执行
		if semver.IsValid(scriptVersion) && semver.Compare(scriptVersion, runningVersion) > 0 {
			continue
		}
		if appliedVersions[migration.Version()] {
			continue
		}

		m.logger.Info("applying migration",
			zap.String("scriptVersion", migration.Version()),
			zap.String("desc", migration.Description()))

		if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx, ctx); err != nil {
				return pkgerrors.Wrap(err, "migration failed")
			}
			record := &SchemaVersion{
				Version:     migration.Version(),
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}
			return pkgerrors.Wrap(tx.Create(record).Error, "failed to record version")
		}); err != nil {
			return pkgerrors.Wrapf(err, "failed to apply migration %s", migration.Version())
		}

		m.logger.Info("migration applied successfully", zap.String("scriptVersion", migration.Version()))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("upgrade completed", zap.Int("migrations_applied", executed))
	}

	// 记录当前版本作为下一次运行的基准，失败不阻断启动
	if err := m.saveReferenceVersion(m.version); err != nil {
		m.logger.Error("save lastVersion failed", zap.Error(err))
	}

	return nil
}

// getAppliedVersions 获取已应用的数据库版本
func (m *MigrationManager) getAppliedVersions() (map[string]bool, error) {
	var versions []SchemaVersion
	if err := m.db.Find(&versions).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v.Version] = true
	}
	return applied, nil
}

// getReferenceVersion 读取上次运行的版本号，文件不存在或为空时返回 v0.0.0
func (m *MigrationManager) getReferenceVersion() string {
	if m.refPath == "" {
		return defaultReferenceVersion
	}
	content, err := os.ReadFile(m.refPath)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("read lastVersion failed", zap.String("path", m.refPath), zap.Error(err))
		}
		return defaultReferenceVersion
	}
	ver := strings.TrimSpace(string(content))
	if ver == "" {
		return defaultReferenceVersion
	}
	return ver
}

func (m *MigrationManager) saveReferenceVersion(version string) error {
	if m.refPath == "" {
		return nil
	}
	return os.WriteFile(m.refPath, []byte(version), 0644)
}

// Execute 执行升级(便捷方法)
func Execute(db *gorm.DB, logger *zap.Logger, version, refPath string) error {
	if db == nil {
		return pkgerrors.New("database not initialized")
	}
	if logger == nil {
		return pkgerrors.New("logger not initialized")
	}
	return NewMigrationManager(db, logger, version, refPath).Run(context.Background())
}
