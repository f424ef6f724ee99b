package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
)

// LocalStorage keeps files on disk under basePath; they are served
// statically at baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates basePath if needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BasePath is the directory served at the public base URL
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

func (l *LocalStorage) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	fullPath, err := l.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.publicURL(key), nil
}

// DeleteFile removes the file. Deleting a missing file is not an error.
func (l *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// GetPresignedURL returns the public URL; local files need no signing
func (l *LocalStorage) GetPresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	if _, err := domain.CleanKey(key); err != nil {
		return "", err
	}
	return l.publicURL(key), nil
}

func (l *LocalStorage) GetKeyFromURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrURLNotManaged, url)
	}
	return key, nil
}

func (l *LocalStorage) resolve(key string) (string, error) {
	cleaned, err := domain.CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(cleaned)), nil
}

func (l *LocalStorage) publicURL(key string) string {
	return fmt.Sprintf("%s/%s", l.baseURL, key)
}
