package storage_test

import (
	"testing"

	"github.com/haierkeys/note-tree-service/pkg/storage"
	"github.com/haierkeys/note-tree-service/pkg/storage/local_fs"
	"github.com/haierkeys/note-tree-service/pkg/storage/minio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Local(t *testing.T) {
	client, err := storage.NewClient(&storage.Config{
		Type:      storage.LOCAL,
		IsEnabled: true,
		SavePath:  t.TempDir(),
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &local_fs.LocalFS{}, client)
}

func TestNewClient_MinIO(t *testing.T) {
	client, err := storage.NewClient(&storage.Config{
		Type:            storage.MinIO,
		IsEnabled:       true,
		Endpoint:        "http://127.0.0.1:9000",
		BucketName:      "notes",
		AccessKeyID:     "minio",
		AccessKeySecret: "minio123",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &minio.MinIO{}, client)
}

func TestNewClient_Disabled(t *testing.T) {
	_, err := storage.NewClient(&storage.Config{Type: storage.LOCAL, SavePath: "x"}, nil)
	assert.ErrorIs(t, err, storage.ErrDisabled)
}

func TestNewClient_Invalid(t *testing.T) {
	_, err := storage.NewClient(&storage.Config{Type: "invalid", IsEnabled: true}, nil)
	assert.Error(t, err)
}

func TestStorageTypeMap(t *testing.T) {
	for _, typ := range []string{storage.OSS, storage.R2, storage.S3, storage.LOCAL, storage.MinIO, storage.WebDAV} {
		assert.True(t, storage.StorageTypeMap[typ], typ)
	}
}
