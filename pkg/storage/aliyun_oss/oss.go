package aliyun_oss

import (
	"bytes"
	"context"
	"sync"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*OSS)
)

func NewClient(conf *Config) (*OSS, error) {
	if conf == nil || conf.Endpoint == "" || conf.BucketName == "" {
		return nil, errors.New("aliyun_oss: endpoint and bucket name are required")
	}
	cacheKey := conf.AccessKeyID + "@" + conf.BucketName

	clientsMu.Lock()
	defer clientsMu.Unlock()
	if c, ok := clients[cacheKey]; ok {
		return c, nil
	}

	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	c := &OSS{Client: client, Bucket: bucket, Config: conf}
	clients[cacheKey] = c
	return c, nil
}

func (p *OSS) SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error) {
	fileKey := fileurl.ObjectKey(p.Config.CustomPath, pathKey)
	options := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}
	if err := p.Bucket.PutObject(fileKey, bytes.NewReader(content), options...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return fileKey, nil
}

func (p *OSS) Delete(ctx context.Context, pathKey string) error {
	fileKey := fileurl.ObjectKey(p.Config.CustomPath, pathKey)
	if err := p.Bucket.DeleteObject(fileKey, oss.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}
