// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/model"
	"github.com/haierkeys/note-tree-service/pkg/fileurl"
	"github.com/haierkeys/note-tree-service/pkg/util"
	"github.com/haierkeys/note-tree-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// 写通道名称，同一通道内的写操作串行执行
const (
	LaneNotes  = "notes"
	LaneImages = "images"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型: sqlite, mysql, postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/notes.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机，格式 host:port
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集 (mysql)
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间 (mysql)
	ParseTime bool `yaml:"parse-time" default:"true"`
	// SSLMode (postgres)
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// LogSQL 是否输出 SQL 日志
	LogSQL bool `yaml:"log-sql"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m、1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// Dao 数据访问对象
type Dao struct {
	db         *gorm.DB
	writeQueue *writequeue.Manager
	logger     *zap.Logger
}

// Option Dao 选项
type Option func(*Dao)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dao) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithWriteQueueManager 设置写队列，未设置时写操作直接执行
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueue = m
	}
}

// New 创建 Dao
func New(db *gorm.DB, opts ...Option) *Dao {
	d := &Dao{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB 返回绑定 ctx 的会话
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// ExecuteWrite 经写队列执行写操作
// 同一 lane 的写操作串行执行，fn 返回的错误原样返回
func (d *Dao) ExecuteWrite(ctx context.Context, lane string, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.DB(ctx))
	}
	return d.writeQueue.Execute(ctx, lane, func() error {
		return fn(d.DB(ctx))
	})
}

// AutoMigrate 迁移全部模型
func (d *Dao) AutoMigrate() error {
	return model.AutoMigrate(d.db, "")
}

// Ping 检查数据库连接
func (d *Dao) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDBEngineWithConfig 根据配置创建 gorm 引擎
func NewDBEngineWithConfig(c DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	if zl == nil {
		zl = zap.NewNop()
	}
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.LogSQL {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`Note` 的表名应该是 `t_note`
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(parseDurationOr(c.ConnMaxLifetime, 30*time.Minute))
	sqlDB.SetConnMaxIdleTime(parseDurationOr(c.ConnMaxIdleTime, 10*time.Minute))

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
		zl.Warn("gorm tracing plugin not registered", zap.Error(err))
	}

	zl.Info("database connected",
		zap.String("type", c.Type),
		zap.Int("maxOpenConns", c.MaxOpenConns))
	return db, nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := util.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres":
		host, port, err := net.SplitHostPort(c.Host)
		if err != nil {
			host, port = c.Host, "5432"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, c.UserName, c.Password, c.Name, c.SSLMode,
		)), nil
	case "sqlite", "":
		return sqlite.Open(sqliteDSN(c.Path)), nil
	}
	return nil, errors.Errorf("unsupported database type: %q", c.Type)
}

// sqliteDSN 文件库自动创建目录并开启 WAL，内存库原样使用
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	if !fileurl.IsExist(path) {
		_ = fileurl.CreatePath(path, os.ModePerm)
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
