package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// Enrollment is the entitlement of one user to one course
type Enrollment struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CourseID  uuid.UUID `json:"course_id" db:"course_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EnrollmentRepository interface {
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
