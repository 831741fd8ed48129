package aws_s3

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// S3 通用 S3 协议客户端，R2 与 MinIO 复用
type S3 struct {
	S3Client        *s3.Client
	TransferManager *transfermanager.Client
	BucketName      string
	CustomPath      string
	logger          *zap.Logger
}

// Option S3 客户端选项
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		if logger != nil {
			s.logger = logger
		}
	}
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*S3)
)

// NewClient 创建 AWS S3 客户端，同一 AccessKey+Bucket 复用实例
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket name is required")
	}
	cacheKey := conf.AccessKeyID + "@" + conf.BucketName

	clientsMu.Lock()
	defer clientsMu.Unlock()
	if c, ok := clients[cacheKey]; ok {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := LoadConfig(conf.AccessKeyID, conf.AccessKeySecret, conf.Region)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	c := FromClient(s3.NewFromConfig(cfg), conf.BucketName, conf.CustomPath, opts...)
	clients[cacheKey] = c
	return c, nil
}

// LoadConfig 以静态凭证加载 aws.Config
func LoadConfig(accessKeyID, accessKeySecret, region string) (aws.Config, error) {
	return config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion(region),
	)
}

// FromClient 包装已构建的 s3.Client
func FromClient(client *s3.Client, bucketName, customPath string, opts ...Option) *S3 {
	c := &S3{
		S3Client:        client,
		TransferManager: transfermanager.New(client),
		BucketName:      bucketName,
		CustomPath:      customPath,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
