package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/internal/tree"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/storage"

	"github.com/bytedance/sonic"
	pkgerrors "github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BackupService 定义笔记备份服务接口
type BackupService interface {
	// Run 立即执行一次备份
	Run(ctx context.Context) (*dto.BackupResultDTO, error)

	// ExecuteScheduled 到达计划时间时执行备份，由定时任务每分钟调用
	ExecuteScheduled(ctx context.Context) error

	// NextRunTime 下次计划执行时间
	NextRunTime() time.Time

	// Enabled 是否配置了备份存储
	Enabled() bool

	// Shutdown 等待进行中的备份结束
	Shutdown(ctx context.Context) error
}

// backupService 实现 BackupService 接口
type backupService struct {
	noteRepo domain.NoteRepository
	target   storage.Storager
	config   *ServiceConfig
	logger   *zap.Logger

	running atomic.Bool
	mu      sync.Mutex
	nextRun time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBackupService 创建 BackupService 实例
// target 为 nil 时备份被禁用，Run 返回 code.ErrorBackupDisabled
func NewBackupService(noteRepo domain.NoteRepository, target storage.Storager, config *ServiceConfig, logger *zap.Logger) BackupService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &backupService{
		noteRepo: noteRepo,
		target:   target,
		config:   config,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.nextRun = s.calculateNextRunTime(time.Now())
	return s
}

// calculateNextRunTime 计算下次执行时间，表达式为空或无效时返回零值
func (s *backupService) calculateNextRunTime(from time.Time) time.Time {
	expr := strings.TrimSpace(s.config.Backup.Cron)
	if expr == "" {
		return time.Time{}
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		s.logger.Warn("invalid backup cron expression", zap.String("cron", expr), zap.Error(err))
		return time.Time{}
	}
	return schedule.Next(from)
}

func (s *backupService) Enabled() bool {
	return s.target != nil
}

func (s *backupService) NextRunTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

// ExecuteScheduled 检查计划时间并执行备份
func (s *backupService) ExecuteScheduled(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	now := time.Now()

	s.mu.Lock()
	due := !s.nextRun.IsZero() && !now.Before(s.nextRun)
	if due {
		s.nextRun = s.calculateNextRunTime(now)
	}
	s.mu.Unlock()

	if !due {
		return nil
	}
	_, err := s.Run(ctx)
	if errors.Is(err, code.ErrorBackupRunning) {
		return nil
	}
	return err
}

// Run 导出全部笔记
// 每个笔记写为 {物化路径}.html，另写 manifest.json 记录 ID 与父子关系
func (s *backupService) Run(ctx context.Context) (*dto.BackupResultDTO, error) {
	if !s.Enabled() {
		return nil, code.ErrorBackupDisabled
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, code.ErrorBackupRunning
	}
	s.wg.Add(1)
	defer func() {
		s.running.Store(false)
		s.wg.Done()
	}()

	started := time.Now()
	result, err := s.export(ctx, started)
	backupDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		s.logger.Error("backup failed", zap.Error(err))
		var c *code.Code
		if errors.As(err, &c) {
			return nil, err
		}
		return nil, code.ErrorBackupFailed.WithDetails(err.Error())
	}

	s.logger.Info("backup finished",
		zap.String("prefix", result.Prefix),
		zap.Int("notes", result.Notes),
		zap.String("duration", result.Duration))
	return result, nil
}

func (s *backupService) export(ctx context.Context, started time.Time) (*dto.BackupResultDTO, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, toCode(err)
	}

	dtos := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		dtos = append(dtos, &dto.NoteDTO{ID: n.ID, Name: n.Name, ParentID: n.ParentID, Content: n.Content})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].ID < dtos[j].ID })
	paths := tree.Paths(dtos)

	prefix := s.config.Backup.Prefix
	if prefix == "" {
		prefix = "backup"
	}
	prefix = path.Join(prefix, started.Format("20060102-150405"))

	result := &dto.BackupResultDTO{
		Prefix:    prefix,
		StartedAt: started.UnixMilli(),
		Files:     make([]string, 0, len(dtos)+1),
	}
	manifest := make([]dto.BackupManifestEntry, 0, len(dtos))
	used := make(map[string]bool, len(dtos))

	for _, n := range dtos {
		if err := s.ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(err, "backup interrupted")
		}
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(err, "backup cancelled")
		}

		file := backupFileName(paths[n.ID], n.ID, used)
		key := path.Join(prefix, file)
		if _, err := s.target.SendContent(ctx, key, []byte(n.Content), "text/html; charset=utf-8"); err != nil {
			return nil, pkgerrors.Wrapf(err, "upload %s", key)
		}
		result.Files = append(result.Files, file)
		manifest = append(manifest, dto.BackupManifestEntry{
			ID:       n.ID,
			Name:     n.Name,
			ParentID: n.ParentID,
			Path:     paths[n.ID],
			File:     file,
		})
	}

	body, err := sonic.Marshal(manifest)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode manifest")
	}
	if _, err := s.target.SendContent(ctx, path.Join(prefix, "manifest.json"), body, "application/json"); err != nil {
		return nil, pkgerrors.Wrap(err, "upload manifest")
	}
	result.Files = append(result.Files, "manifest.json")
	result.Notes = len(dtos)
	result.Duration = time.Since(started).Round(time.Millisecond).String()
	return result, nil
}

// backupFileName 将物化路径转为安全的相对文件名
// 空段与 . .. 替换为 _，重名时追加笔记 ID
func backupFileName(p string, id int64, used map[string]bool) string {
	segments := strings.Split(p, tree.PathSeparator)
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "." || seg == ".." {
			seg = "_"
		}
		segments[i] = strings.ReplaceAll(seg, "\\", "_")
	}
	base := strings.Join(segments, "/")

	name := base + ".html"
	if used[name] {
		name = fmt.Sprintf("%s.%d.html", base, id)
	}
	used[name] = true
	return name
}

// Shutdown 通知进行中的备份停止并等待，遵守 ctx 超时
func (s *backupService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
