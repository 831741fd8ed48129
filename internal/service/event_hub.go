package service

import (
	"sync"

	"github.com/haierkeys/note-tree-service/internal/domain"

	"go.uber.org/zap"
)

// EventPublisher 笔记变更事件发布接口
type EventPublisher interface {
	Publish(event domain.NoteEvent)
}

// EventHub 进程内的笔记事件广播
// 订阅者处理过慢时丢弃事件，发布方永不阻塞
type EventHub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan domain.NoteEvent
	nextID uint64
	buffer int
	closed bool
	logger *zap.Logger
}

// NewEventHub 创建事件广播，buffer 为每个订阅者的缓冲大小
func NewEventHub(buffer int, logger *zap.Logger) *EventHub {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		subs:   make(map[uint64]chan domain.NoteEvent),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe 订阅事件，返回事件通道和取消函数
// Hub 关闭后通道会被关闭
func (h *EventHub) Subscribe() (<-chan domain.NoteEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.NoteEvent, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Publish 向所有订阅者广播事件
func (h *EventHub) Publish(event domain.NoteEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.logger.Warn("note event dropped, subscriber is slow",
				zap.Uint64("subscriber", id),
				zap.String("type", string(event.Type)),
				zap.Int64("noteId", event.ID))
		}
	}
}

// Count 当前订阅者数量
func (h *EventHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close 关闭全部订阅
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.NoteEvent) {}
