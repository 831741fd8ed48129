package editor

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// MemoryEditor 内存编辑器
type MemoryEditor struct {
	mu      sync.Mutex
	content string
}

func (e *MemoryEditor) Content() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content, nil
}

func (e *MemoryEditor) SetContent(html string) error {
	e.mu.Lock()
	e.content = html
	e.mu.Unlock()
	return nil
}

// MemoryCache 内存指针缓存
type MemoryCache struct {
	mu sync.Mutex
	p  *Pointer
}

func (c *MemoryCache) Load() (*Pointer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.p == nil {
		return nil, nil
	}
	p := *c.p
	return &p, nil
}

func (c *MemoryCache) Save(p Pointer) error {
	c.mu.Lock()
	c.p = &p
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	c.p = nil
	c.mu.Unlock()
	return nil
}

// FileBuffer 以文件作为编辑器缓冲区，命令行客户端用外部编辑器修改该文件
type FileBuffer struct {
	Path string
}

// Content 文件不存在时视为空
func (b *FileBuffer) Content() (string, error) {
	data, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read editor buffer")
	}
	return string(data), nil
}

func (b *FileBuffer) SetContent(html string) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return errors.Wrap(err, "create editor buffer dir")
	}
	return errors.Wrap(os.WriteFile(b.Path, []byte(html), 0o644), "write editor buffer")
}

// FileCache 以 JSON 文件保存当前笔记指针
type FileCache struct {
	Path string
}

func (c *FileCache) Load() (*Pointer, error) {
	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read note pointer")
	}
	var p Pointer
	if err := sonic.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "decode note pointer")
	}
	if p.ID <= 0 {
		return nil, nil
	}
	return &p, nil
}

func (c *FileCache) Save(p Pointer) error {
	data, err := sonic.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode note pointer")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return errors.Wrap(err, "create note pointer dir")
	}
	return errors.Wrap(os.WriteFile(c.Path, data, 0o644), "write note pointer")
}

func (c *FileCache) Clear() error {
	err := os.Remove(c.Path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove note pointer")
	}
	return nil
}
