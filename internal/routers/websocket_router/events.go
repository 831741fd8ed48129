// Package websocket_router 提供笔记变更事件的 websocket 推送
package websocket_router

import (
	"sync"
	"time"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/service"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

// EventAction 推送消息的 action 前缀，消息格式为 "NoteEvent|{json}"
const EventAction = "NoteEvent"

// Config websocket 配置
type Config struct {
	GWSOption gws.ServerOption
	// PingInterval 服务端发送 ping 的间隔
	PingInterval time.Duration
	// PingWait 超过该时间未收到任何帧则断开
	PingWait time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:  true,
			Recovery:          gws.Recovery,
			PermessageDeflate: gws.PermessageDeflate{Enabled: true},
		},
		PingInterval: 25 * time.Second,
		PingWait:     60 * time.Second,
	}
}

type eventClient struct {
	conn   *gws.Conn
	events <-chan domain.NoteEvent
	cancel func()
}

// EventsServer 订阅 EventHub 并将事件推送给所有连接
type EventsServer struct {
	hub    *service.EventHub
	logger *zap.Logger
	config Config
	up     *gws.Upgrader

	mu      sync.Mutex
	clients map[*gws.Conn]*eventClient
}

// NewEventsServer 创建事件推送服务
func NewEventsServer(hub *service.EventHub, logger *zap.Logger, config Config) *EventsServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EventsServer{
		hub:     hub,
		logger:  logger,
		config:  config,
		clients: make(map[*gws.Conn]*eventClient),
	}
	s.up = gws.NewUpgrader(s, &s.config.GWSOption)
	return s
}

// Run 升级连接并开始推送
func (s *EventsServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := s.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			s.logger.Warn("websocket upgrade err", zap.Error(err))
			return
		}
		events, cancel := s.hub.Subscribe()
		client := &eventClient{conn: socket, events: events, cancel: cancel}

		s.mu.Lock()
		s.clients[socket] = client
		s.mu.Unlock()

		go socket.ReadLoop()
		go s.pump(client)
	}
}

// Count 当前连接数
func (s *EventsServer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// pump 转发事件并定期 ping，事件通道关闭后退出
func (s *EventsServer) pump(c *eventClient) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.conn.WriteClose(1000, []byte("ServerClose"))
				return
			}
			payload, err := encodeEvent(ev)
			if err != nil {
				s.logger.Error("encode note event err", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(gws.OpcodeText, payload); err != nil {
				s.logger.Debug("write note event err", zap.Error(err))
			}
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				s.logger.Debug("websocket ping err", zap.Error(err))
			}
		}
	}
}

func encodeEvent(ev domain.NoteEvent) ([]byte, error) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return append([]byte(EventAction+"|"), data...), nil
}

func (s *EventsServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(s.config.PingWait))
	s.logger.Info("websocket client connect", zap.Int("count", s.Count()))
}

func (s *EventsServer) OnClose(conn *gws.Conn, err error) {
	s.mu.Lock()
	c := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()

	if c != nil {
		c.cancel()
	}
	s.logger.Info("websocket client leave", zap.Int("count", s.Count()), zap.Error(err))
}

func (s *EventsServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(s.config.PingWait))
	_ = socket.WritePong(nil)
}

func (s *EventsServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(s.config.PingWait))
}

// OnMessage 只处理 "close"，推送通道不接受客户端指令
func (s *EventsServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(s.config.PingWait))
	if message.Opcode == gws.OpcodeText && message.Data.String() == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
	}
}
