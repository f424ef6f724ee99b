package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/enrollment/domain"
)

// AccessService decides course entitlement
type AccessService struct {
	repo domain.EnrollmentRepository
}

func NewAccessService(repo domain.EnrollmentRepository) *AccessService {
	return &AccessService{repo: repo}
}

// CanAccessCourse is true for admins and for users enrolled in the course
func (s *AccessService) CanAccessCourse(ctx context.Context, userID uuid.UUID, role string, courseID uuid.UUID) (bool, error) {
	if role == domain.RoleAdmin {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}
	return s.repo.IsEnrolled(ctx, userID, courseID)
}

func (s *AccessService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.repo.IsEnrolled(ctx, userID, courseID)
}

func (s *AccessService) ListCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListCourseIDs(ctx, userID)
}
