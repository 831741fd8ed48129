// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/pkg/limiter"
	"github.com/haierkeys/note-tree-service/pkg/logger"
	"github.com/haierkeys/note-tree-service/pkg/storage"
	"github.com/haierkeys/note-tree-service/pkg/util"
	"github.com/haierkeys/note-tree-service/pkg/workerpool"
	"github.com/haierkeys/note-tree-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量覆盖前缀
const EnvPrefix = "NOTE_TREE_"

// AppConfig 应用配置
type AppConfig struct {
	File     string             `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig       `yaml:"server"`
	Log      LogConfig          `yaml:"log"`
	Database dao.DatabaseConfig `yaml:"database"`
	App      AppSettings        `yaml:"app"`
	Security SecurityConfig     `yaml:"security"`
	Tracer   TracerConfig       `yaml:"tracer"`
	Storage  StorageConfig      `yaml:"storage"`
	Backup   BackupConfig       `yaml:"backup"`
	Limiter  LimiterConfig      `yaml:"limiter"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// AuthToken 为空时 /api 不做认证
	AuthToken string `yaml:"auth-token"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// ImageMaxSize 图片解码后大小上限，0 表示不限制
	ImageMaxSize string `yaml:"image-max-size" default:"10MB"`
	// EventBuffer 每个 websocket 订阅者的事件缓冲
	EventBuffer int `yaml:"event-buffer" default:"64"`
	// OrphanReportInterval 孤儿笔记统计间隔，0 表示关闭
	OrphanReportInterval string `yaml:"orphan-report-interval" default:"1h"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址（host:port），为空则只生成 trace id 不上报
	JaegerAgent string `yaml:"jaeger-agent"`
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	// Mirror 图片镜像目标
	Mirror storage.Config `yaml:"mirror"`
	// Backup 备份目标
	Backup storage.Config `yaml:"backup"`
}

// BackupConfig 备份任务配置
type BackupConfig struct {
	// Cron 5 段 cron 表达式
	Cron string `yaml:"cron" default:"0 3 * * *"`
	// Prefix 备份对象键前缀
	Prefix string `yaml:"prefix" default:"backup"`
}

// LimiterRule 单条限流规则
type LimiterRule struct {
	// Key 形如 "POST /api/notes"
	Key          string `yaml:"key"`
	FillInterval string `yaml:"fill-interval"`
	Capacity     int64  `yaml:"capacity"`
	Quantum      int64  `yaml:"quantum"`
}

// LimiterConfig 限流配置
type LimiterConfig struct {
	Enabled bool          `yaml:"enabled" default:"true"`
	Rules   []LimiterRule `yaml:"rules"`
}

// defaultLimiterRules 未配置规则时对写接口生效
var defaultLimiterRules = []LimiterRule{
	{Key: "POST /api/notes", FillInterval: "1s", Capacity: 50, Quantum: 50},
	{Key: "PUT /api/notes/:id", FillInterval: "1s", Capacity: 50, Quantum: 50},
	{Key: "PATCH /api/notes/:id/name", FillInterval: "1s", Capacity: 50, Quantum: 50},
	{Key: "DELETE /api/notes/:id", FillInterval: "1s", Capacity: 20, Quantum: 20},
	{Key: "POST /api/notes/:id/move", FillInterval: "1s", Capacity: 50, Quantum: 50},
	{Key: "POST /api/images", FillInterval: "1s", Capacity: 10, Quantum: 10},
	{Key: "POST /api/admin/backup", FillInterval: "1m", Capacity: 2, Quantum: 1},
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	// .env 可选，不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, realpath, errors.Wrap(err, "load .env failed")
	}

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	c.ApplyEnv(os.LookupEnv)

	return c, realpath, nil
}

// ApplyEnv 使用 NOTE_TREE_* 环境变量覆盖配置
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		"DB_TYPE":      &c.Database.Type,
		"DB_PATH":      &c.Database.Path,
		"DB_HOST":      &c.Database.Host,
		"DB_USER":      &c.Database.UserName,
		"DB_PASSWORD":  &c.Database.Password,
		"DB_NAME":      &c.Database.Name,
		"HTTP_PORT":    &c.Server.HttpPort,
		"AUTH_TOKEN":   &c.Security.AuthToken,
		"LOG_LEVEL":    &c.Log.Level,
		"JAEGER_AGENT": &c.Tracer.JaegerAgent,
		"BACKUP_CRON":  &c.Backup.Cron,
		"PRIVATE_HTTP": &c.Server.PrivateHttpListen,
	}
	for key, target := range overrides {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// LoggerConfig 转换为 pkg/logger 配置
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}

	return cfg
}

// GetContextTimeout 请求默认超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetImageMaxSize 图片大小上限（字节）
func (c *AppConfig) GetImageMaxSize() int64 {
	return util.ParseSize(c.App.ImageMaxSize, 10<<20)
}

// GetOrphanReportInterval 孤儿统计间隔，解析失败或为 0 时返回 0
func (c *AppConfig) GetOrphanReportInterval() time.Duration {
	if c.App.OrphanReportInterval == "" {
		return 0
	}
	d, err := util.ParseDuration(c.App.OrphanReportInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetLimiterRules 转换限流规则，非法的间隔会被跳过
func (c *AppConfig) GetLimiterRules() []limiter.BucketRule {
	rules := c.Limiter.Rules
	if len(rules) == 0 {
		rules = defaultLimiterRules
	}

	out := make([]limiter.BucketRule, 0, len(rules))
	for _, r := range rules {
		interval, err := util.ParseDuration(r.FillInterval)
		if err != nil || interval <= 0 || r.Capacity <= 0 {
			continue
		}
		quantum := r.Quantum
		if quantum <= 0 {
			quantum = 1
		}
		out = append(out, limiter.BucketRule{
			Key:          r.Key,
			FillInterval: interval,
			Capacity:     r.Capacity,
			Quantum:      quantum,
		})
	}
	return out
}
