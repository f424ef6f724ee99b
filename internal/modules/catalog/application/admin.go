package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	fsdomain "github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
)

const thumbnailSize = 500

// AssetStore is the part of the file storage module the catalog uses
type AssetStore interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, policy fsdomain.AssetPolicy) (*fsdomain.StoredFile, error)
	UploadWithKey(ctx context.Context, file io.Reader, key string, contentType string) (string, error)
	DeleteByURL(ctx context.Context, fileURL string)
}

// Upload is a single file taken from a multipart form
type Upload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type NewCourse struct {
	Title       string
	Description string
	Category    string
	Price       float64
	Duration    string
	CreatedBy   uuid.UUID
}

type NewLecture struct {
	Title       string
	Description string
}

// CreateCourse stores the image, derives a thumbnail from it and inserts the
// course. Uploaded files are removed again if the insert fails.
func (s *courseService) CreateCourse(ctx context.Context, input NewCourse, image Upload) (*domain.Course, error) {
	if input.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if image.File == nil {
		return nil, domain.ErrMissingImage
	}

	course := &domain.Course{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Duration:    input.Duration,
	}
	if input.CreatedBy != uuid.Nil {
		createdBy := input.CreatedBy
		course.CreatedBy = &createdBy
	}

	stored, err := s.assets.Upload(ctx, image.File, image.Header, fsdomain.CourseImagePolicy)
	if err != nil {
		return nil, err
	}
	course.ImageURL = &stored.URL

	if thumbURL, err := s.storeThumbnail(ctx, course.ID, image.File); err != nil {
		log.Printf("[CourseService.CreateCourse] thumbnail for %s skipped: %v", course.ID, err)
	} else {
		course.ThumbnailURL = &thumbURL
	}

	if err := s.courses.Create(ctx, course); err != nil {
		s.deleteAssets(ctx, course.ImageURL, course.ThumbnailURL)
		return nil, err
	}

	log.Printf("[CourseService.CreateCourse] created course %s", course.ID)
	return course, nil
}

func (s *courseService) storeThumbnail(ctx context.Context, courseID uuid.UUID, file multipart.File) (string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind image: %w", err)
	}
	buf, err := makeThumbnail(file)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.jpg", fsdomain.CourseThumbnailFolder, courseID)
	return s.assets.UploadWithKey(ctx, buf, key, "image/jpeg")
}

// makeThumbnail fits the image into a 500x500 box and encodes it as JPEG
func makeThumbnail(r io.Reader) (*bytes.Buffer, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	dst := imaging.Fit(src, thumbnailSize, thumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dst, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf, nil
}

func (s *courseService) AddLecture(ctx context.Context, courseID uuid.UUID, input NewLecture, video Upload) (*domain.Lecture, error) {
	if video.File == nil {
		return nil, domain.ErrMissingVideo
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	stored, err := s.assets.Upload(ctx, video.File, video.Header, fsdomain.LectureVideoPolicy)
	if err != nil {
		return nil, err
	}

	lecture := &domain.Lecture{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    &stored.URL,
	}
	if err := s.lectures.Create(ctx, lecture); err != nil {
		s.deleteAssets(ctx, lecture.VideoURL)
		return nil, err
	}
	return lecture, nil
}

// DeleteCourse removes the course and, best effort, its image, thumbnail and
// lecture videos.
func (s *courseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	lectures, err := s.lectures.ListByCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteAssets(ctx, course.ImageURL, course.ThumbnailURL)
	for _, l := range lectures {
		s.deleteAssets(ctx, l.VideoURL)
	}
	return nil
}

func (s *courseService) DeleteLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	lecture, err := s.lectures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.lectures.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.deleteAssets(ctx, lecture.VideoURL)
	return lecture, nil
}

func (s *courseService) deleteAssets(ctx context.Context, urls ...*string) {
	for _, u := range urls {
		if u != nil {
			s.assets.DeleteByURL(ctx, *u)
		}
	}
}
