package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModule_LocalBackendServesFromDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	ctx := context.Background()

	m, err := NewModule(ctx, config.FileStorageConfig{LocalPath: dir, PublicBaseURL: "/uploads/"})
	require.NoError(t, err)
	assert.Equal(t, dir, m.LocalPath())

	url, err := m.Service().UploadWithKey(ctx, strings.NewReader("notes"), "courses/materials/week1.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/courses/materials/week1.txt", url)

	data, err := os.ReadFile(filepath.Join(dir, "courses", "materials", "week1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes", string(data))

	m.Service().DeleteByURL(ctx, url)
	_, err = os.Stat(filepath.Join(dir, "courses", "materials", "week1.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewModule_S3(t *testing.T) {
	m, err := NewModule(context.Background(), config.FileStorageConfig{
		UseS3: true, S3BucketName: "b", S3Region: "us-east-1", S3Endpoint: "localhost:9000", S3AccessKey: "x", S3SecretKey: "y",
	})
	require.NoError(t, err)
	assert.Empty(t, m.LocalPath(), "s3 files are not served by the api")

	_, err = NewModule(context.Background(), config.FileStorageConfig{UseS3: true})
	assert.ErrorContains(t, err, "failed to initialize S3 storage")
}
