// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/service"
	pkgapp "github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/storage"
	"github.com/haierkeys/note-tree-service/pkg/tracer"
	"github.com/haierkeys/note-tree-service/pkg/workerpool"
	"github.com/haierkeys/note-tree-service/pkg/writequeue"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	NoteRepo  domain.NoteRepository
	ImageRepo domain.ImageRepository

	// Service 层
	NoteService   service.NoteService
	ImageService  service.ImageService
	BackupService service.BackupService
	Events        *service.EventHub

	tracerCloser io.Closer
	shutdownCh   chan struct{}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		shutdownCh: make(chan struct{}),
	}

	if cfg.Tracer.Enabled {
		_, closer, err := tracer.NewJaegerTracer(Name, cfg.Tracer.JaegerAgent)
		if err != nil {
			return nil, err
		}
		a.tracerCloser = closer
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db,
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)
	if cfg.Database.AutoMigrate {
		if err := a.Dao.AutoMigrate(); err != nil {
			return nil, errors.Wrap(err, "auto migrate failed")
		}
	}

	// 存储后端，未启用时为 nil
	mirror, err := newStorage(&cfg.Storage.Mirror, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init mirror storage failed")
	}
	backupTarget, err := newStorage(&cfg.Storage.Backup, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init backup storage failed")
	}

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.ImageRepo = dao.NewImageRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		Image: service.ImageServiceConfig{
			MaxSize:      cfg.GetImageMaxSize(),
			MirrorPrefix: "images",
		},
		Backup: service.BackupServiceConfig{
			Cron:   cfg.Backup.Cron,
			Prefix: cfg.Backup.Prefix,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.Events = service.NewEventHub(cfg.App.EventBuffer, logger)
	a.NoteService = service.NewNoteService(a.NoteRepo, a.Events, logger)
	a.ImageService = service.NewImageService(a.ImageRepo, mirror, a.workerPool, svcConfig, logger)
	a.BackupService = service.NewBackupService(a.NoteRepo, backupTarget, svcConfig, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Bool("imageMirror", mirror != nil),
		zap.Bool("backup", backupTarget != nil))

	return a, nil
}

func newStorage(cfg *storage.Config, logger *zap.Logger) (storage.Storager, error) {
	s, err := storage.NewClient(cfg, logger)
	if errors.Is(err, storage.ErrDisabled) {
		return nil, nil
	}
	return s, err
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Backup -> Events -> Worker Pool -> Write Queue Manager -> Tracer -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	// 标记关闭
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error

	// 0. 等待正在执行的备份
	if a.BackupService != nil {
		if err := a.BackupService.Shutdown(ctx); err != nil {
			a.logger.Warn("backup service shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("backup service shutdown: %w", err))
		}
	}

	// 1. 断开所有事件订阅
	if a.Events != nil {
		a.Events.Close()
	}

	// 2. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 3. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}
	}

	// 4. 刷新 tracer 缓冲
	if a.tracerCloser != nil {
		if err := a.tracerCloser.Close(); err != nil {
			a.logger.Warn("tracer close error", zap.Error(err))
		}
	}

	// 5. 关闭数据库
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		} else {
			a.logger.Info("Database connection closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.Info("App container shutdown completed")
	return nil
}
