package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotEnrolled      = errors.New("you are not enrolled in this course")
	ErrProgressNotFound = errors.New("no progress found")
)

// Completion is the result of recording a finished lecture
type Completion int

const (
	Recorded Completion = iota + 1
	AlreadyRecorded
)

type Progress struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user"`
	CourseID          uuid.UUID   `json:"course"`
	CompletedLectures []uuid.UUID `json:"completedLectures"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Report summarises a user's progress through a course
type Report struct {
	CompletedCount int
	TotalCount     int
	Percentage     float64
	NoLectures     bool
	Progress       *Progress
}

type ProgressRepository interface {
	Get(ctx context.Context, userID, courseID uuid.UUID) (*Progress, error)
	// AppendLecture adds lectureID to the completed set. It returns false when
	// the lecture was already there and ErrProgressNotFound when no row exists.
	AppendLecture(ctx context.Context, userID, courseID, lectureID uuid.UUID) (bool, error)
}
