package minio

import (
	"github.com/haierkeys/note-tree-service/pkg/storage/aws_s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// MinIO 走 S3 协议，强制 path-style 寻址
type MinIO struct {
	*aws_s3.S3
}

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) aws_s3.Option {
	return aws_s3.WithLogger(logger)
}

func NewClient(conf *Config, opts ...aws_s3.Option) (*MinIO, error) {
	if conf == nil || conf.Endpoint == "" || conf.BucketName == "" {
		return nil, errors.New("minio: endpoint and bucket name are required")
	}
	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := aws_s3.LoadConfig(conf.AccessKeyID, conf.AccessKeySecret, region)
	if err != nil {
		return nil, errors.Wrap(err, "minio")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(conf.Endpoint)
	})
	return &MinIO{S3: aws_s3.FromClient(client, conf.BucketName, conf.CustomPath, opts...)}, nil
}
