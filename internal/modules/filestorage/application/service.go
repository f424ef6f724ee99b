package application

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
)

// FileService stores course and lecture assets on the configured backend
type FileService struct {
	storage domain.FileStorage
}

// NewFileService creates a new file service
func NewFileService(storage domain.FileStorage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// Upload stores a single multipart file under the policy's folder. The object
// name is a fresh UUID followed by the original extension.
func (s *FileService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, policy domain.AssetPolicy) (*domain.StoredFile, error) {
	if file == nil || header == nil {
		return nil, domain.ErrMissingUploadField
	}
	if err := policy.Allows(header.Filename, header.Size); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%s/%s%s", policy.Folder, uuid.New().String(), ext)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			contentType = guessed
		}
	}

	url, err := s.UploadWithKey(ctx, file, key, contentType)
	if err != nil {
		return nil, err
	}

	return &domain.StoredFile{
		Key:          key,
		URL:          url,
		ContentType:  contentType,
		Size:         header.Size,
		OriginalName: header.Filename,
	}, nil
}

// UploadWithKey stores content under an explicit key
func (s *FileService) UploadWithKey(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	cleaned, err := domain.CleanKey(key)
	if err != nil {
		return "", err
	}
	return s.storage.UploadFile(ctx, cleaned, file, contentType)
}

// GetPresignedURL generates a presigned URL for viewing
func (s *FileService) GetPresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return s.storage.GetPresignedURL(ctx, key, expiration)
}

// Delete deletes a file
func (s *FileService) Delete(ctx context.Context, key string) error {
	return s.storage.DeleteFile(ctx, key)
}

// DeleteByURL removes the object behind a URL returned by Upload. Missing or
// foreign URLs are ignored; failures are logged, not returned.
func (s *FileService) DeleteByURL(ctx context.Context, fileURL string) {
	if fileURL == "" {
		return
	}
	key, err := s.storage.GetKeyFromURL(fileURL)
	if err != nil {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		log.Printf("[FileService.DeleteByURL] failed to delete %s: %v", key, err)
	}
}

// GetKeyFromURL extracts the storage key from a URL
func (s *FileService) GetKeyFromURL(fileURL string) (string, error) {
	return s.storage.GetKeyFromURL(fileURL)
}
