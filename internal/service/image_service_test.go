package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/workerpool"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memImageRepo struct {
	domain.ImageRepository
	mu     sync.Mutex
	images map[string]*domain.Image
}

func newMemImageRepo() *memImageRepo {
	return &memImageRepo{images: map[string]*domain.Image{}}
}

func (r *memImageRepo) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *image
	r.images[image.ID] = &c
	return image, nil
}

func (r *memImageRepo) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return img, nil
}

// recordingStorage 记录上传的对象
type recordingStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	fail    bool
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *recordingStorage) SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error) {
	if s.fail {
		return "", errors.New("bucket unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[pathKey] = append([]byte(nil), content...)
	s.types[pathKey] = contentType
	return pathKey, nil
}

func (s *recordingStorage) Delete(ctx context.Context, pathKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, pathKey)
	return nil
}

func (s *recordingStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestImageService_UploadAndGet(t *testing.T) {
	repo := newMemImageRepo()
	svc := NewImageService(repo, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	data := base64.StdEncoding.EncodeToString(pngBytes)
	img, err := svc.Upload(ctx, &dto.ImageUploadRequest{Filename: "a.png", Mimetype: "image/png", Data: data})
	require.NoError(t, err)
	_, err = uuid.Parse(img.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", img.Filename)

	full, err := svc.Get(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, data, full.Data)
	assert.Equal(t, "image/png", full.Mimetype)
	assert.NotZero(t, full.CreatedAt)

	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, code.ErrorImageNotFound)
	_, err = svc.Get(ctx, " ")
	assert.ErrorIs(t, err, code.ErrorImageNotFound)
}

func TestImageService_RejectsInvalidData(t *testing.T) {
	svc := NewImageService(newMemImageRepo(), nil, nil, &ServiceConfig{Image: ImageServiceConfig{MaxSize: 4}}, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, &dto.ImageUploadRequest{Filename: "a.png", Mimetype: "image/png", Data: "not base64!"})
	assert.ErrorIs(t, err, code.ErrorImageDataInvalid)

	_, err = svc.Upload(ctx, &dto.ImageUploadRequest{
		Filename: "a.png",
		Mimetype: "image/png",
		Data:     base64.StdEncoding.EncodeToString(pngBytes),
	})
	assert.ErrorIs(t, err, code.ErrorImageTooLarge)

	// 不带填充的编码同样接受
	_, err = svc.Upload(ctx, &dto.ImageUploadRequest{
		Filename: "b.png",
		Mimetype: "image/png",
		Data:     base64.RawStdEncoding.EncodeToString([]byte{1, 2}),
	})
	assert.NoError(t, err)
}

func TestImageService_MirrorsToStorage(t *testing.T) {
	store := newRecordingStorage()
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 2, QueueSize: 8}, zap.NewNop())
	svc := NewImageService(newMemImageRepo(), store, pool, &ServiceConfig{}, zap.NewNop())

	img, err := svc.Upload(context.Background(), &dto.ImageUploadRequest{
		Filename: "photo",
		Mimetype: "image/jpeg",
		Data:     base64.StdEncoding.EncodeToString(pngBytes),
	})
	require.NoError(t, err)

	require.NoError(t, pool.Shutdown(context.Background()))
	key := "images/" + img.ID + ".jpg"
	assert.Equal(t, []string{key}, store.keys())
	assert.Equal(t, pngBytes, store.objects[key])
	assert.Equal(t, "image/jpeg", store.types[key])
}

func TestImageService_MirrorFailureDoesNotFailUpload(t *testing.T) {
	store := newRecordingStorage()
	store.fail = true
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 1, QueueSize: 1}, zap.NewNop())
	svc := NewImageService(newMemImageRepo(), store, pool, nil, zap.NewNop())

	_, err := svc.Upload(context.Background(), &dto.ImageUploadRequest{
		Filename: "a.png",
		Mimetype: "image/png",
		Data:     base64.StdEncoding.EncodeToString(pngBytes),
	})
	require.NoError(t, err)
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Empty(t, store.keys())

	// 池关闭后上传仍然成功，只是不再镜像
	_, err = svc.Upload(context.Background(), &dto.ImageUploadRequest{
		Filename: "b.png",
		Mimetype: "image/png",
		Data:     base64.StdEncoding.EncodeToString(pngBytes),
	})
	assert.NoError(t, err)
}
