package task

import (
	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/pkg/safe_close"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, appContainer *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		app:       appContainer,
	}
}

// RegisterTasks 通过注册表创建所有任务，未启用的任务跳过
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			return pkgerrors.Wrap(err, "create task")
		}
		if t == nil {
			continue
		}
		m.scheduler.AddTask(t)
		m.logger.Info("task registered",
			zap.String("name", t.Name()),
			zap.Duration("interval", t.LoopInterval()))
	}
	return nil
}

// Tasks 已注册的任务
func (m *Manager) Tasks() []Task {
	return m.scheduler.Tasks()
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
