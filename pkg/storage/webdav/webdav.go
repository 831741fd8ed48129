package webdav

import (
	"context"
	"os"
	"path"
	"sync"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config WebDAV 连接信息
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	Path       string `yaml:"path"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*WebDAV)
)

// NewClient 创建 WebDAV 客户端，连接在首次写入时建立
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}
	cacheKey := conf.Endpoint + conf.Path + conf.User + conf.CustomPath

	clientsMu.Lock()
	defer clientsMu.Unlock()
	if c, ok := clients[cacheKey]; ok {
		return c, nil
	}
	c := &WebDAV{
		Client: gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password),
		Config: conf,
	}
	clients[cacheKey] = c
	return c, nil
}

func (w *WebDAV) remotePath(pathKey string) (string, string) {
	fileKey := fileurl.ObjectKey(w.Config.CustomPath, pathKey)
	return fileKey, path.Join("/", w.Config.Path, fileKey)
}

// SendContent 上传内容，自动创建父目录
// gowebdav 不支持 context, 仅在调用前检查取消
func (w *WebDAV) SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey, remote := w.remotePath(pathKey)
	if err := w.Client.MkdirAll(path.Dir(remote), 0o755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(remote, content, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return fileKey, nil
}

func (w *WebDAV) Delete(ctx context.Context, pathKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, remote := w.remotePath(pathKey)
	if err := w.Client.Remove(remote); err != nil && !gowebdav.IsErrNotFound(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
