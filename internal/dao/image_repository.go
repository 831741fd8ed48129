package dao

import (
	"context"
	"errors"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/model"

	"gorm.io/gorm"
)

// imageRepository 实现 domain.ImageRepository 接口
type imageRepository struct {
	dao *Dao
}

// NewImageRepository 创建 ImageRepository 实例
func NewImageRepository(dao *Dao) domain.ImageRepository {
	return &imageRepository{dao: dao}
}

func (r *imageRepository) toDomain(m *model.Image) *domain.Image {
	if m == nil {
		return nil
	}
	return &domain.Image{
		ID:        m.ID,
		Filename:  m.Filename,
		Mimetype:  m.Mimetype,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
	}
}

func imageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrImageNotFound
	}
	return domain.NewStoreError(op, err)
}

// Create 保存图片，ID 由调用方生成
func (r *imageRepository) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	m := &model.Image{
		ID:        image.ID,
		Filename:  image.Filename,
		Mimetype:  image.Mimetype,
		Data:      image.Data,
		CreatedAt: image.CreatedAt,
	}
	err := r.dao.ExecuteWrite(ctx, LaneImages, func(db *gorm.DB) error {
		return db.Create(m).Error
	})
	if err != nil {
		return nil, imageErr("create image", err)
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取图片
func (r *imageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	var m model.Image
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, imageErr("get image", err)
	}
	return r.toDomain(&m), nil
}
