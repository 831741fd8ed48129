package service

import (
	"context"
	"encoding/base64"
	"path"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/fileurl"
	"github.com/haierkeys/note-tree-service/pkg/storage"
	"github.com/haierkeys/note-tree-service/pkg/workerpool"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageService 定义图片业务服务接口
type ImageService interface {
	// Upload 保存 base64 图片，返回不含数据的记录
	Upload(ctx context.Context, params *dto.ImageUploadRequest) (*dto.ImageDTO, error)

	// Get 获取完整图片记录
	Get(ctx context.Context, id string) (*dto.ImageDataDTO, error)
}

// imageService 实现 ImageService 接口
type imageService struct {
	imageRepo domain.ImageRepository
	mirror    storage.Storager
	pool      *workerpool.Pool
	config    *ServiceConfig
	logger    *zap.Logger
}

// NewImageService 创建 ImageService 实例
// mirror 或 pool 为 nil 时不做镜像
func NewImageService(imageRepo domain.ImageRepository, mirror storage.Storager, pool *workerpool.Pool, config *ServiceConfig, logger *zap.Logger) ImageService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &imageService{
		imageRepo: imageRepo,
		mirror:    mirror,
		pool:      pool,
		config:    config,
		logger:    logger,
	}
}

// decodeImage 校验 base64 数据并返回解码后的字节
func decodeImage(data string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err == nil {
		return raw, nil
	}
	// 兼容不带填充的编码
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// Upload 保存图片
// 数据库是唯一数据源，镜像到对象存储在后台进行，失败只记录日志
func (s *imageService) Upload(ctx context.Context, params *dto.ImageUploadRequest) (*dto.ImageDTO, error) {
	raw, err := decodeImage(params.Data)
	if err != nil {
		return nil, code.ErrorImageDataInvalid.WithDetails(err.Error())
	}
	if limit := s.config.Image.MaxSize; limit > 0 && int64(len(raw)) > limit {
		return nil, code.ErrorImageTooLarge
	}

	img, err := s.imageRepo.Create(ctx, &domain.Image{
		ID:        uuid.New().String(),
		Filename:  params.Filename,
		Mimetype:  params.Mimetype,
		Data:      params.Data,
		CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error("save image failed", zap.String("filename", params.Filename), zap.Error(err))
		return nil, toCode(err)
	}

	s.mirrorAsync(img, raw)

	return &dto.ImageDTO{
		ID:       img.ID,
		Filename: img.Filename,
		Mimetype: img.Mimetype,
	}, nil
}

// mirrorKey 镜像对象键：{prefix}/{id}{ext}
func (s *imageService) mirrorKey(img *domain.Image) string {
	prefix := s.config.Image.MirrorPrefix
	if prefix == "" {
		prefix = "images"
	}
	return path.Join(prefix, img.ID+fileurl.ExtByMime(img.Filename, img.Mimetype))
}

func (s *imageService) mirrorAsync(img *domain.Image, raw []byte) {
	if s.mirror == nil || s.pool == nil {
		return
	}
	key := s.mirrorKey(img)
	mimetype := img.Mimetype
	err := s.pool.SubmitAsync(context.Background(), func(ctx context.Context) error {
		dst, err := s.mirror.SendContent(ctx, key, raw, mimetype)
		imageMirrorTotal.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			s.logger.Warn("mirror image failed", zap.String("imageId", img.ID), zap.String("key", key), zap.Error(err))
			return err
		}
		s.logger.Debug("image mirrored", zap.String("imageId", img.ID), zap.String("dst", dst))
		return nil
	})
	if err != nil {
		imageMirrorTotal.WithLabelValues("dropped").Inc()
		s.logger.Warn("mirror image not scheduled", zap.String("imageId", img.ID), zap.Error(err))
	}
}

// Get 获取完整图片记录
func (s *imageService) Get(ctx context.Context, id string) (*dto.ImageDataDTO, error) {
	if strings.TrimSpace(id) == "" {
		return nil, code.ErrorImageNotFound
	}
	img, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toCode(err)
	}
	return &dto.ImageDataDTO{
		ID:        img.ID,
		Filename:  img.Filename,
		Mimetype:  img.Mimetype,
		Data:      img.Data,
		CreatedAt: img.CreatedAt,
	}, nil
}
