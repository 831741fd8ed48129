// Package client 笔记服务 HTTP 客户端，命令行和编辑会话通过它访问 API
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/internal/tree"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// ErrInvalidDrop 目标是笔记自身或其后代
var ErrInvalidDrop = errors.New("cannot move a note into itself or its descendant")

// APIError 非 2xx 响应
type APIError struct {
	Status  int      `json:"-"`
	Message string   `json:"error"`
	Code    int      `json:"code"`
	Details []string `json:"details"`
	TraceID string   `json:"traceId"`
}

func (e *APIError) Error() string {
	return "api error " + strconv.Itoa(e.Status) + ": " + e.Message
}

// NotFound 编辑会话据此判断笔记已被删除
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsNotFound 是否为 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsConflict 是否为 409，移动成环时返回
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken 设置 Bearer 令牌
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client 笔记 API 客户端
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New 创建客户端，base 形如 http://127.0.0.1:9000
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(data) > 0 {
			_ = sonic.Unmarshal(data, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return errors.Wrap(sonic.Unmarshal(data, out), "decode response")
}

func notePath(id int64, suffix string) string {
	return "/api/notes/" + strconv.FormatInt(id, 10) + suffix
}

// ListNotes 全部笔记
func (c *Client) ListNotes(ctx context.Context) ([]*dto.NoteDTO, error) {
	var out []*dto.NoteDTO
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNote 单条笔记
func (c *Client) GetNote(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	if err := c.do(ctx, http.MethodGet, notePath(id, ""), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNote parentID 为 nil 时创建根笔记
func (c *Client) CreateNote(ctx context.Context, name string, parentID *int64, content string) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	req := &dto.NoteCreateRequest{Name: name, ParentID: parentID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/notes", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateNote 更新名称和内容
func (c *Client) UpdateNote(ctx context.Context, id int64, name, content string) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	req := &dto.NoteUpdateRequest{Name: name, Content: &content}
	if err := c.do(ctx, http.MethodPut, notePath(id, ""), nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RenameNote 仅修改名称
func (c *Client) RenameNote(ctx context.Context, id int64, name string) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	if err := c.do(ctx, http.MethodPatch, notePath(id, "/name"), nil, &dto.NoteRenameRequest{Name: name}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteNote 删除笔记及后代，返回删除前的快照
func (c *Client) DeleteNote(ctx context.Context, id int64) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	if err := c.do(ctx, http.MethodDelete, notePath(id, ""), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MoveNote 移动笔记，newParentID 为 nil 时移到根
// 发起请求前先用目标的面包屑检查是否会移到自身或后代之下，服务端仍会再次校验
func (c *Client) MoveNote(ctx context.Context, id int64, newParentID *int64) (*dto.NoteDTO, error) {
	if newParentID != nil && *newParentID > 0 {
		if *newParentID == id {
			return nil, ErrInvalidDrop
		}
		// 目标父笔记不存在时跳过检查，是否允许由服务端决定
		crumbs, err := c.Path(ctx, *newParentID)
		if err != nil && !IsNotFound(err) {
			return nil, err
		}
		for _, b := range crumbs {
			if b.ID == id {
				return nil, ErrInvalidDrop
			}
		}
	}
	out := new(dto.NoteDTO)
	if err := c.do(ctx, http.MethodPost, notePath(id, "/move"), nil, &dto.NoteMoveRequest{NewParentID: newParentID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Children parentID 为 nil 时返回根笔记
func (c *Client) Children(ctx context.Context, parentID *int64) ([]*dto.NoteDTO, error) {
	seg := "null"
	if parentID != nil {
		seg = strconv.FormatInt(*parentID, 10)
	}
	var out []*dto.NoteDTO
	if err := c.do(ctx, http.MethodGet, "/api/notes/by-parent/"+seg, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search 名称子串搜索
func (c *Client) Search(ctx context.Context, q string) ([]*dto.NoteDTO, error) {
	var out []*dto.NoteDTO
	if err := c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {q}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Path 面包屑
func (c *Client) Path(ctx context.Context, id int64) ([]*dto.BreadcrumbDTO, error) {
	var out []*dto.BreadcrumbDTO
	if err := c.do(ctx, http.MethodGet, notePath(id, "/path"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByPath 按名称路径定位笔记
func (c *Client) ByPath(ctx context.Context, p string) (*dto.NoteDTO, error) {
	out := new(dto.NoteDTO)
	if err := c.do(ctx, http.MethodGet, "/api/notes/by-path", url.Values{"path": {p}}, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChildrenByPath 路径下的子笔记，空路径为根笔记
func (c *Client) ChildrenByPath(ctx context.Context, p string) ([]*dto.NoteDTO, error) {
	var out []*dto.NoteDTO
	if err := c.do(ctx, http.MethodGet, "/api/notes/by-path/children", url.Values{"path": {p}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tree 服务端构建的树
func (c *Client) Tree(ctx context.Context) ([]*tree.Node, error) {
	var out []*tree.Node
	if err := c.do(ctx, http.MethodGet, "/api/notes/tree", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage data 为 base64 编码
func (c *Client) UploadImage(ctx context.Context, filename, mimetype, data string) (*dto.ImageDTO, error) {
	out := new(dto.ImageDTO)
	req := &dto.ImageUploadRequest{Filename: filename, Mimetype: mimetype, Data: data}
	if err := c.do(ctx, http.MethodPost, "/api/images", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetImage 完整图片记录
func (c *Client) GetImage(ctx context.Context, id string) (*dto.ImageDataDTO, error) {
	out := new(dto.ImageDataDTO)
	if err := c.do(ctx, http.MethodGet, "/api/images/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Backup 立即执行一次备份
func (c *Client) Backup(ctx context.Context) (*dto.BackupResultDTO, error) {
	out := new(dto.BackupResultDTO)
	if err := c.do(ctx, http.MethodPost, "/api/admin/backup", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
