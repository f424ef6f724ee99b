package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     string     `json:"category" db:"category"`
	ImageURL     *string    `json:"image_url,omitempty" db:"image_url"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Price        float64    `json:"price" db:"price"`
	Duration     string     `json:"duration" db:"duration"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	LectureCount int        `json:"lecture_count" db:"lecture_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type Lecture struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CourseID    uuid.UUID `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	VideoURL    *string   `json:"video_url,omitempty" db:"video_url"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CourseFilter narrows ListCourses. The zero value lists everything.
type CourseFilter struct {
	Keyword  string
	Category string
}

// IsZero reports whether the filter matches every course
func (f CourseFilter) IsZero() bool {
	return f.Keyword == "" && f.Category == ""
}

// Viewer is the caller of an entitlement-checked read
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	List(ctx context.Context, filter CourseFilter) ([]Course, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LectureRepository interface {
	Create(ctx context.Context, lecture *Lecture) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lecture, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Lecture, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseFinder is the read-only view other modules (payment, progress) use
type CourseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)
	LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}
