// Package writequeue serializes store writes per lane
// Package writequeue 按通道串行化存储写操作
// SQLite allows a single writer; routing every mutation of a lane through one
// goroutine avoids "database is locked" under concurrent HTTP requests
// SQLite 只允许一个写者, 同一通道的写操作经由单个 goroutine 执行, 避免并发请求下的 "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrWriteQueueFull returned when the lane queue is full
	// ErrWriteQueueFull 当通道队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when the manager is closed
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when a write waits longer than WriteTimeout
	// ErrWriteTimeout 当写操作等待超过 WriteTimeout 时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per-lane queue capacity, default 100
	// QueueCapacity 每个通道的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout write operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
	}
}

// 写操作状态, 由 worker 与等待方通过 CAS 争夺
const (
	opPending int32 = iota
	opRunning
	opAbandoned
)

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	state  atomic.Int32
}

type lane struct {
	name string
	ch   chan *writeOp
	wg   sync.WaitGroup
}

// Manager owns one FIFO lane per name
// Manager 为每个名称维护一个 FIFO 通道
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.RWMutex
	lanes  map[string]*lane
	closed bool
}

// New creates a write queue manager
// New 创建写队列管理器
// cfg: nil means DefaultConfig
// cfg: 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout))

	return &Manager{
		config: c,
		logger: logger,
		lanes:  make(map[string]*lane),
	}
}

// Execute runs fn on the lane's worker and waits for its result
// Execute 在通道的 worker 上执行 fn 并等待结果
// Writes on the same lane run one at a time in submission order
// 同一通道的写操作按提交顺序逐个执行
func (m *Manager) Execute(ctx context.Context, name string, fn func() error) error {
	result := make(chan error, 1)
	op := &writeOp{ctx: ctx, fn: fn, result: result}

	// 持有读锁提交, 保证 Shutdown 关闭 channel 时没有并发发送
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	l := m.laneLocked(name)
	// 升级锁期间可能已经关闭
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	select {
	case l.ch <- op:
	default:
		m.mu.RUnlock()
		return ErrWriteQueueFull
	}
	m.mu.RUnlock()

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	var giveUp error
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		giveUp = ctx.Err()
	case <-timer.C:
		giveUp = ErrWriteTimeout
	}

	// 尚未开始的写操作标记为放弃, worker 不会再执行
	if op.state.CompareAndSwap(opPending, opAbandoned) {
		return giveUp
	}
	// 已经开始执行时等待真实结果
	m.logger.Warn("write already running when caller stopped waiting, waiting for result",
		zap.String("lane", name), zap.Error(giveUp))
	return <-result
}

// laneLocked returns the named lane, creating it on first use; caller holds m.mu (read)
// laneLocked 获取通道, 首次使用时创建; 调用方需持有读锁
func (m *Manager) laneLocked(name string) *lane {
	if l, ok := m.lanes[name]; ok {
		return l
	}

	// 升级为写锁创建通道
	m.mu.RUnlock()
	m.mu.Lock()
	l, ok := m.lanes[name]
	if !ok && !m.closed {
		l = &lane{name: name, ch: make(chan *writeOp, m.config.QueueCapacity)}
		l.wg.Add(1)
		go m.worker(l)
		m.lanes[name] = l
		m.logger.Debug("created write lane", zap.String("lane", name))
	}
	m.mu.Unlock()
	m.mu.RLock()
	return l
}

func (m *Manager) worker(l *lane) {
	defer l.wg.Done()
	for op := range l.ch {
		m.executeOp(op)
	}
	m.logger.Debug("write lane worker stopped", zap.String("lane", l.name))
}

func (m *Manager) executeOp(op *writeOp) {
	// 调用方已放弃等待时不再执行
	if !op.state.CompareAndSwap(opPending, opRunning) {
		return
	}
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

// Shutdown stops accepting writes and drains every lane
// Shutdown 停止接收写操作并排空所有通道
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	lanes := make([]*lane, 0, len(m.lanes))
	for _, l := range m.lanes {
		close(l.ch)
		lanes = append(lanes, l)
	}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down", zap.Int("lanes", len(lanes)))

	done := make(chan struct{})
	go func() {
		for _, l := range lanes {
			l.wg.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueuedCount returns the number of writes waiting on a lane
// QueuedCount 返回通道中等待的写操作数
func (m *Manager) QueuedCount(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.lanes[name]; ok {
		return len(l.ch)
	}
	return 0
}

// IsClosed returns if manager is closed
// IsClosed 返回管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
