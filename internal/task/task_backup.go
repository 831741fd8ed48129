package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-tree-service/internal/app"
	"go.uber.org/zap"
)

// BackupTask 按 cron 表达式执行笔记备份
type BackupTask struct {
	app    *app.App
	logger *zap.Logger
}

// Name returns the task name
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// LoopInterval 每分钟检查一次是否到达计划时间
func (t *BackupTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

// IsStartupRun returns whether to run on startup
func (t *BackupTask) IsStartupRun() bool {
	return false
}

// Run executes the backup processing
func (t *BackupTask) Run(ctx context.Context) error {
	return t.app.BackupService.ExecuteScheduled(ctx)
}

// NewBackupTask 未配置备份存储时返回 nil
func NewBackupTask(appContainer *app.App) (Task, error) {
	if appContainer.BackupService == nil || !appContainer.BackupService.Enabled() {
		return nil, nil
	}
	return &BackupTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	RegisterWithApp(NewBackupTask)
}
