package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/progress/domain"
)

type ProgressService interface {
	RecordCompletion(ctx context.Context, userID, courseID, lectureID uuid.UUID) (domain.Completion, error)
	GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*domain.Report, error)
}

type progressService struct {
	repo    domain.ProgressRepository
	courses catalogDomain.CourseFinder
}

func NewProgressService(repo domain.ProgressRepository, courses catalogDomain.CourseFinder) ProgressService {
	return &progressService{repo: repo, courses: courses}
}

func (s *progressService) RecordCompletion(ctx context.Context, userID, courseID, lectureID uuid.UUID) (domain.Completion, error) {
	if _, err := s.repo.Get(ctx, userID, courseID); err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			return 0, domain.ErrNotEnrolled
		}
		return 0, err
	}

	lectures, err := s.courses.LectureIDs(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if !contains(lectures, lectureID) {
		return 0, catalogDomain.ErrLectureNotFound
	}

	appended, err := s.repo.AppendLecture(ctx, userID, courseID, lectureID)
	if err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			return 0, domain.ErrNotEnrolled
		}
		return 0, err
	}
	if !appended {
		return domain.AlreadyRecorded, nil
	}
	return domain.Recorded, nil
}

// GetProgress only counts completed lectures that still belong to the course,
// so the percentage stays within 0..100 after lectures are deleted
func (s *progressService) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*domain.Report, error) {
	progress, err := s.repo.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	lectures, err := s.courses.LectureIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, id := range progress.CompletedLectures {
		if contains(lectures, id) {
			completed++
		}
	}

	report := &domain.Report{
		CompletedCount: completed,
		TotalCount:     len(lectures),
		Progress:       progress,
	}
	if report.TotalCount == 0 {
		report.NoLectures = true
		return report, nil
	}
	report.Percentage = float64(completed) * 100 / float64(report.TotalCount)
	return report, nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
