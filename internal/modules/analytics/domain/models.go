package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrCourseNotFound = errors.New("course not found")

// Totals are the headline sales figures for a reporting window
type Totals struct {
	Revenue           float64 `json:"total_revenue" db:"revenue"`
	Purchases         int     `json:"total_purchases" db:"purchases"`
	Enrollments       int     `json:"total_enrollments" db:"enrollments"`
	LecturesCompleted int     `json:"lectures_completed" db:"lectures_completed"`
}

type DailyStat struct {
	Date  string `json:"date" db:"date"`
	Count int    `json:"count" db:"count"`
}

type DailyRevenueStat struct {
	Date      string  `json:"date" db:"date"`
	Revenue   float64 `json:"revenue" db:"revenue"`
	Purchases int     `json:"purchases" db:"purchases"`
}

type TopCourseStat struct {
	CourseID  uuid.UUID `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Purchases int       `json:"purchases" db:"purchases"`
	Revenue   float64   `json:"revenue" db:"revenue"`
	Learners  int       `json:"learners" db:"learners"`
}

// CourseStats is the per-course view. Finished counts learners who have
// completed every lecture the course currently has.
type CourseStats struct {
	CourseID       uuid.UUID `json:"course_id" db:"course_id"`
	Title          string    `json:"title" db:"title"`
	Purchases      int       `json:"purchases" db:"purchases"`
	Revenue        float64   `json:"revenue" db:"revenue"`
	Learners       int       `json:"learners" db:"learners"`
	Lectures       int       `json:"lectures" db:"lectures"`
	Started        int       `json:"started" db:"started"`
	Finished       int       `json:"finished" db:"finished"`
	CompletionRate float64   `json:"completion_rate" db:"-"`
}

type OverviewResponse struct {
	Days              int                `json:"days"`
	Totals            Totals             `json:"totals"`
	RevenueByDay      []DailyRevenueStat `json:"revenue_by_day"`
	EnrollmentsByDay  []DailyStat        `json:"enrollments_by_day"`
	RevenueByCurrency map[string]float64 `json:"revenue_by_currency"`
	TopCourses        []TopCourseStat    `json:"top_courses"`
}

// AnalyticsRepository defines the contract for sales reporting queries
type AnalyticsRepository interface {
	GetTotals(ctx context.Context, days int) (*Totals, error)
	GetRevenueByDay(ctx context.Context, days int) ([]DailyRevenueStat, error)
	GetEnrollmentsByDay(ctx context.Context, days int) ([]DailyStat, error)
	GetRevenueByCurrency(ctx context.Context, days int) (map[string]float64, error)
	GetTopCourses(ctx context.Context, limit int, sortBy string) ([]TopCourseStat, error)
	GetCourseStats(ctx context.Context, courseID uuid.UUID) (*CourseStats, error)
}
