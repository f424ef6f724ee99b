package http_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/catalog/application"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/stretchr/testify/mock"
)

type mockCourseService struct{ mock.Mock }

func (m *mockCourseService) ListCourses(ctx context.Context, f domain.CourseFilter) ([]domain.Course, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockCourseService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseService) ListLectures(ctx context.Context, v domain.Viewer, courseID uuid.UUID) ([]domain.Lecture, error) {
	args := m.Called(ctx, v, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lecture), args.Error(1)
}

func (m *mockCourseService) GetLecture(ctx context.Context, v domain.Viewer, id uuid.UUID) (*domain.Lecture, error) {
	args := m.Called(ctx, v, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

func (m *mockCourseService) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockCourseService) LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockCourseService) CreateCourse(ctx context.Context, in application.NewCourse, img application.Upload) (*domain.Course, error) {
	args := m.Called(ctx, in, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseService) AddLecture(ctx context.Context, courseID uuid.UUID, in application.NewLecture, video application.Upload) (*domain.Lecture, error) {
	args := m.Called(ctx, courseID, in, video)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

func (m *mockCourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCourseService) DeleteLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

type mockFileService struct{ mock.Mock }

func (m *mockFileService) GetKeyFromURL(u string) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

func (m *mockFileService) GetPresignedURL(ctx context.Context, key string, exp time.Duration) (string, error) {
	args := m.Called(ctx, key, exp)
	return args.String(0), args.Error(1)
}
