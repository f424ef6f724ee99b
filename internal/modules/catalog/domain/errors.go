package domain

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrLectureNotFound = errors.New("lecture not found")
	ErrNotSubscribed   = errors.New("you have not subscribed to this course")
	ErrInvalidPrice    = errors.New("price cannot be negative")
	ErrMissingImage    = errors.New("course image is required")
	ErrMissingVideo    = errors.New("lecture video is required")
)
