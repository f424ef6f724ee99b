package http

import (
	"context"
	"time"
)

// FileService presigns stored asset URLs for private buckets
type FileService interface {
	GetKeyFromURL(fileURL string) (string, error)
	GetPresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}
