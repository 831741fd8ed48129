package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-tree-service/internal/app"
	"go.uber.org/zap"
)

// OrphanReportTask 定期统计父笔记不存在的笔记数量
// 悬空引用只做报告，不做修复
type OrphanReportTask struct {
	app      *app.App
	logger   *zap.Logger
	interval time.Duration

	// Last 最近一次统计结果
	Last int64
}

func (t *OrphanReportTask) Name() string {
	return "OrphanReport"
}

func (t *OrphanReportTask) LoopInterval() time.Duration {
	return t.interval
}

func (t *OrphanReportTask) IsStartupRun() bool {
	return true
}

func (t *OrphanReportTask) Run(ctx context.Context) error {
	n, err := t.app.NoteService.CountOrphans(ctx)
	if err != nil {
		return err
	}
	t.Last = n
	if n > 0 {
		t.logger.Warn("notes with dangling parent reference", zap.Int64("count", n))
	} else {
		t.logger.Debug("no orphan notes")
	}
	return nil
}

// NewOrphanReportTask 间隔配置为空或非法时返回 nil
func NewOrphanReportTask(appContainer *app.App) (Task, error) {
	interval := appContainer.Config().GetOrphanReportInterval()
	if interval <= 0 {
		return nil, nil
	}
	return &OrphanReportTask{
		app:      appContainer,
		logger:   appContainer.Logger(),
		interval: interval,
	}, nil
}

func init() {
	RegisterWithApp(NewOrphanReportTask)
}
