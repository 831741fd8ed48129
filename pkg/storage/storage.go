// Package storage 封装图片镜像与备份导出使用的存储后端
package storage

import (
	"context"

	"github.com/haierkeys/note-tree-service/pkg/storage/aliyun_oss"
	"github.com/haierkeys/note-tree-service/pkg/storage/aws_s3"
	"github.com/haierkeys/note-tree-service/pkg/storage/cloudflare_r2"
	"github.com/haierkeys/note-tree-service/pkg/storage/local_fs"
	"github.com/haierkeys/note-tree-service/pkg/storage/minio"
	"github.com/haierkeys/note-tree-service/pkg/storage/webdav"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Type = string

const OSS Type = "oss"
const R2 Type = "r2"
const S3 Type = "s3"
const LOCAL Type = "localfs"
const MinIO Type = "minio"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	OSS:    true,
	R2:     true,
	S3:     true,
	LOCAL:  true,
	MinIO:  true,
	WebDAV: true,
}

// ErrDisabled 存储未启用
var ErrDisabled = errors.New("storage is disabled")

// Config 存储配置
type Config struct {
	Type       Type   `yaml:"type" default:"localfs"`
	IsEnabled  bool   `yaml:"is-enable"`
	CustomPath string `yaml:"custom-path"`

	// S3 / MinIO / R2 / OSS
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"`

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"`

	// LocalFS
	SavePath string `yaml:"save-path" default:"storage/mirror"`
}

// Storager 存储后端接口
// pathKey 为相对路径，后端负责拼接 CustomPath 前缀
type Storager interface {
	// SendContent 上传内容，返回最终的对象键
	SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error)
	// Delete 删除对象，对象不存在时不报错
	Delete(ctx context.Context, pathKey string) error
}

// NewClient 根据配置创建存储客户端
func NewClient(cfg *Config, logger *zap.Logger) (Storager, error) {
	if cfg == nil {
		return nil, errors.New("storage config is nil")
	}
	if !cfg.IsEnabled {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("storage", cfg.Type))

	switch cfg.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   cfg.SavePath,
			CustomPath: cfg.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          cfg.Region,
			BucketName:      cfg.BucketName,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			CustomPath:      cfg.CustomPath,
		}, aws_s3.WithLogger(logger))
	case R2:
		return cloudflare_r2.NewClient(&cloudflare_r2.Config{
			AccountID:       cfg.AccountID,
			BucketName:      cfg.BucketName,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			CustomPath:      cfg.CustomPath,
		}, cloudflare_r2.WithLogger(logger))
	case MinIO:
		return minio.NewClient(&minio.Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			BucketName:      cfg.BucketName,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			CustomPath:      cfg.CustomPath,
		}, minio.WithLogger(logger))
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        cfg.Endpoint,
			BucketName:      cfg.BucketName,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			CustomPath:      cfg.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   cfg.Endpoint,
			Path:       cfg.Path,
			User:       cfg.User,
			Password:   cfg.Password,
			CustomPath: cfg.CustomPath,
		})
	}
	return nil, errors.Errorf("unsupported storage type: %q", cfg.Type)
}
