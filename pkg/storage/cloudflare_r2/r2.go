package cloudflare_r2

import (
	"fmt"

	"github.com/haierkeys/note-tree-service/pkg/storage/aws_s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	AccountID       string `yaml:"account-id"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// R2 Cloudflare R2 走 S3 协议
type R2 struct {
	*aws_s3.S3
}

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) aws_s3.Option {
	return aws_s3.WithLogger(logger)
}

// Endpoint 返回账户对应的 R2 S3 端点
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

func NewClient(conf *Config, opts ...aws_s3.Option) (*R2, error) {
	if conf == nil || conf.AccountID == "" || conf.BucketName == "" {
		return nil, errors.New("cloudflare_r2: account id and bucket name are required")
	}
	cfg, err := aws_s3.LoadConfig(conf.AccessKeyID, conf.AccessKeySecret, "auto")
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare_r2")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(Endpoint(conf.AccountID))
	})
	return &R2{S3: aws_s3.FromClient(client, conf.BucketName, conf.CustomPath, opts...)}, nil
}
