package application

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/analytics/domain"
)

const (
	DefaultDays     = 30
	MaxDays         = 365
	DefaultTopLimit = 5
	MaxTopLimit     = 50
)

type AnalyticsService interface {
	GetOverview(ctx context.Context, days int, sortBy string) (*domain.OverviewResponse, error)
	GetTopCourses(ctx context.Context, limit int, sortBy string) ([]domain.TopCourseStat, error)
	GetCourseStats(ctx context.Context, courseID uuid.UUID) (*domain.CourseStats, error)
}

type analyticsService struct {
	repo domain.AnalyticsRepository
}

func NewAnalyticsService(repo domain.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) GetOverview(ctx context.Context, days int, sortBy string) (*domain.OverviewResponse, error) {
	days = clamp(days, DefaultDays, MaxDays)

	totals, err := s.repo.GetTotals(ctx, days)
	if err != nil {
		return nil, err
	}
	revenueByDay, err := s.repo.GetRevenueByDay(ctx, days)
	if err != nil {
		return nil, err
	}
	enrollmentsByDay, err := s.repo.GetEnrollmentsByDay(ctx, days)
	if err != nil {
		return nil, err
	}
	revenueByCurrency, err := s.repo.GetRevenueByCurrency(ctx, days)
	if err != nil {
		return nil, err
	}
	topCourses, err := s.repo.GetTopCourses(ctx, DefaultTopLimit, sortBy)
	if err != nil {
		return nil, err
	}

	return &domain.OverviewResponse{
		Days:              days,
		Totals:            *totals,
		RevenueByDay:      revenueByDay,
		EnrollmentsByDay:  enrollmentsByDay,
		RevenueByCurrency: revenueByCurrency,
		TopCourses:        topCourses,
	}, nil
}

func (s *analyticsService) GetTopCourses(ctx context.Context, limit int, sortBy string) ([]domain.TopCourseStat, error) {
	return s.repo.GetTopCourses(ctx, clamp(limit, DefaultTopLimit, MaxTopLimit), sortBy)
}

// GetCourseStats adds the completion rate: finished learners over enrolled
// learners, as a percentage with two decimals.
func (s *analyticsService) GetCourseStats(ctx context.Context, courseID uuid.UUID) (*domain.CourseStats, error) {
	stats, err := s.repo.GetCourseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if stats.Learners > 0 {
		stats.CompletionRate = math.Round(float64(stats.Finished)/float64(stats.Learners)*10000) / 100
	}
	return stats, nil
}

func clamp(v, def, upper int) int {
	if v <= 0 {
		return def
	}
	return min(v, upper)
}
