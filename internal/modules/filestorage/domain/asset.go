package domain

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFile    = errors.New("file type is not allowed")
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrURLNotManaged      = errors.New("url is not managed by this storage")
	ErrMissingFilename    = errors.New("uploaded file has no name")
	ErrMissingUploadField = errors.New("missing upload")
)

// StoredFile is the stable reference returned for every upload
type StoredFile struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	OriginalName string `json:"original_name"`
}

// AssetPolicy decides where an uploaded file lands and what is accepted
type AssetPolicy struct {
	Folder     string
	Extensions []string
	MaxBytes   int64
}

var (
	CourseImagePolicy = AssetPolicy{
		Folder:     "courses/images",
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		MaxBytes:   10 << 20,
	}
	CourseThumbnailFolder = "courses/thumbnails"
	AvatarPolicy          = AssetPolicy{
		Folder:     "users/avatars",
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		MaxBytes:   5 << 20,
	}
	LectureVideoPolicy    = AssetPolicy{
		Folder:     "lectures/videos",
		Extensions: []string{".mp4", ".webm", ".mov", ".mkv"},
		MaxBytes:   2 << 30,
	}
)

// Allows checks name and size against the policy
func (p AssetPolicy) Allows(name string, size int64) error {
	if name == "" {
		return ErrMissingFilename
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return ErrFileTooLarge
	}
	if len(p.Extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range p.Extensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedFile
}

// CleanKey rejects absolute keys and keys that escape the storage root
func CleanKey(key string) (string, error) {
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if key == "" || cleaned == "." || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
