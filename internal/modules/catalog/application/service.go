package application

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
)

// Entitlements answers whether a user may open a course's lectures
type Entitlements interface {
	CanAccessCourse(ctx context.Context, userID uuid.UUID, role string, courseID uuid.UUID) (bool, error)
	ListCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type CourseService interface {
	ListCourses(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	ListLectures(ctx context.Context, viewer domain.Viewer, courseID uuid.UUID) ([]domain.Lecture, error)
	GetLecture(ctx context.Context, viewer domain.Viewer, lectureID uuid.UUID) (*domain.Lecture, error)
	MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error)
	LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)

	CreateCourse(ctx context.Context, input NewCourse, image Upload) (*domain.Course, error)
	AddLecture(ctx context.Context, courseID uuid.UUID, input NewLecture, video Upload) (*domain.Lecture, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	DeleteLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
}

type courseService struct {
	courses      domain.CourseRepository
	lectures     domain.LectureRepository
	finder       domain.CourseFinder
	entitlements Entitlements
	assets       AssetStore
}

func NewCourseService(
	courses domain.CourseRepository,
	lectures domain.LectureRepository,
	finder domain.CourseFinder,
	entitlements Entitlements,
	assets AssetStore,
) CourseService {
	return &courseService{
		courses:      courses,
		lectures:     lectures,
		finder:       finder,
		entitlements: entitlements,
		assets:       assets,
	}
}

func (s *courseService) ListCourses(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	return s.courses.List(ctx, filter)
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListLectures returns the course's lectures in order. A missing course is
// reported before the entitlement check.
func (s *courseService) ListLectures(ctx context.Context, viewer domain.Viewer, courseID uuid.UUID) ([]domain.Lecture, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, viewer, courseID); err != nil {
		return nil, err
	}
	return s.lectures.ListByCourse(ctx, courseID)
}

func (s *courseService) GetLecture(ctx context.Context, viewer domain.Viewer, lectureID uuid.UUID) (*domain.Lecture, error) {
	lecture, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, viewer, lecture.CourseID); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *courseService) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	ids, err := s.entitlements.ListCourseIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return s.courses.ListByIDs(ctx, ids)
}

func (s *courseService) LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return s.finder.LectureIDs(ctx, courseID)
}

func (s *courseService) authorize(ctx context.Context, viewer domain.Viewer, courseID uuid.UUID) error {
	ok, err := s.entitlements.CanAccessCourse(ctx, viewer.UserID, viewer.Role, courseID)
	if err != nil {
		log.Printf("[CourseService.authorize] entitlement check failed for user %s course %s: %v", viewer.UserID, courseID, err)
		return err
	}
	if !ok {
		return domain.ErrNotSubscribed
	}
	return nil
}
