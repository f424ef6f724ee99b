package filestorage

import (
	"context"
	"fmt"

	"github.com/saransh1220/coursehub/internal/modules/filestorage/application"
	"github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
	"github.com/saransh1220/coursehub/internal/modules/filestorage/infrastructure/local"
	"github.com/saransh1220/coursehub/internal/modules/filestorage/infrastructure/s3"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
)

// Module represents the FileStorage module
type Module struct {
	service   *application.FileService
	storage   domain.FileStorage
	localPath string
}

// NewModule creates and initializes the FileStorage module
func NewModule(ctx context.Context, cfg config.FileStorageConfig) (*Module, error) {
	if cfg.UseS3 {
		storage, err := s3.NewS3Storage(ctx, s3.S3Config{
			BucketName:     cfg.S3BucketName,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			UseSSL:         cfg.S3UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return newModule(storage, ""), nil
	}

	storage, err := local.NewLocalStorage(cfg.LocalPath, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	return newModule(storage, storage.BasePath()), nil
}

func newModule(storage domain.FileStorage, localPath string) *Module {
	return &Module{
		service:   application.NewFileService(storage),
		storage:   storage,
		localPath: localPath,
	}
}

// Service returns the file service for use by other modules
func (m *Module) Service() *application.FileService {
	return m.service
}

// LocalPath is the directory to serve statically, empty when files live in S3
func (m *Module) LocalPath() string {
	return m.localPath
}
