package local_fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/mirror"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save path is required")
	}
	return &LocalFS{Config: conf}, nil
}

// fullPath 返回对象键对应的本地路径
func (p *LocalFS) fullPath(fileKey string) string {
	return filepath.Join(p.Config.SavePath, filepath.FromSlash(fileKey))
}

// SendContent 写入本地文件，必要时创建目录
func (p *LocalFS) SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey := fileurl.ObjectKey(p.Config.CustomPath, pathKey)
	dst := p.fullPath(fileKey)
	if err := fileurl.CreatePath(dst, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	return fileKey, nil
}
