package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/analytics/domain"
	paymentDomain "github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

// only captured payments count as sales
const paidStatus = paymentDomain.CaptureCompleted

var topCourseOrder = map[string]string{
	"revenue":   "revenue DESC",
	"purchases": "purchases DESC",
	"learners":  "learners DESC",
}

type PgAnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *PgAnalyticsRepository {
	return &PgAnalyticsRepository{db: db}
}

func (r *PgAnalyticsRepository) GetTotals(ctx context.Context, days int) (*domain.Totals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM payments
			  WHERE status = $1 AND created_at > NOW() - ($2 || ' days')::INTERVAL) AS revenue,
			(SELECT COUNT(*) FROM payments
			  WHERE status = $1 AND created_at > NOW() - ($2 || ' days')::INTERVAL) AS purchases,
			(SELECT COUNT(*) FROM enrollments
			  WHERE created_at > NOW() - ($2 || ' days')::INTERVAL) AS enrollments,
			(SELECT COALESCE(SUM(cardinality(completed_lectures)), 0) FROM course_progress
			  WHERE updated_at > NOW() - ($2 || ' days')::INTERVAL) AS lectures_completed
	`
	var totals domain.Totals
	if err := r.db.GetContext(ctx, &totals, query, paidStatus, days); err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}
	return &totals, nil
}

func (r *PgAnalyticsRepository) GetRevenueByDay(ctx context.Context, days int) ([]domain.DailyRevenueStat, error) {
	query := `
		SELECT
			to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS date,
			COALESCE(SUM(amount), 0) AS revenue,
			COUNT(*) AS purchases
		FROM payments
		WHERE status = $1
		  AND created_at > NOW() - ($2 || ' days')::INTERVAL
		GROUP BY 1
		ORDER BY 1 ASC
	`
	stats := []domain.DailyRevenueStat{}
	if err := r.db.SelectContext(ctx, &stats, query, paidStatus, days); err != nil {
		return nil, fmt.Errorf("failed to get revenue by day: %w", err)
	}
	return stats, nil
}

func (r *PgAnalyticsRepository) GetEnrollmentsByDay(ctx context.Context, days int) ([]domain.DailyStat, error) {
	query := `
		SELECT
			to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS count
		FROM enrollments
		WHERE created_at > NOW() - ($1 || ' days')::INTERVAL
		GROUP BY 1
		ORDER BY 1 ASC
	`
	stats := []domain.DailyStat{}
	if err := r.db.SelectContext(ctx, &stats, query, days); err != nil {
		return nil, fmt.Errorf("failed to get enrollments by day: %w", err)
	}
	return stats, nil
}

func (r *PgAnalyticsRepository) GetRevenueByCurrency(ctx context.Context, days int) (map[string]float64, error) {
	query := `
		SELECT currency, COALESCE(SUM(amount), 0) AS revenue
		FROM payments
		WHERE status = $1
		  AND created_at > NOW() - ($2 || ' days')::INTERVAL
		GROUP BY currency
	`
	rows, err := r.db.QueryContext(ctx, query, paidStatus, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by currency: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var currency string
		var revenue float64
		if err := rows.Scan(&currency, &revenue); err != nil {
			return nil, err
		}
		out[currency] = revenue
	}
	return out, rows.Err()
}

// GetTopCourses ranks courses by revenue, purchases or learners. Unknown sort
// keys fall back to revenue.
func (r *PgAnalyticsRepository) GetTopCourses(ctx context.Context, limit int, sortBy string) ([]domain.TopCourseStat, error) {
	order, ok := topCourseOrder[sortBy]
	if !ok {
		order = topCourseOrder["revenue"]
	}

	query := `
		SELECT
			c.id AS course_id,
			c.title,
			(SELECT COUNT(*) FROM payments p WHERE p.course_id = c.id AND p.status = $1) AS purchases,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.course_id = c.id AND p.status = $1) AS revenue,
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS learners
		FROM courses c
		ORDER BY ` + order + `, c.title ASC
		LIMIT $2
	`
	stats := []domain.TopCourseStat{}
	if err := r.db.SelectContext(ctx, &stats, query, paidStatus, limit); err != nil {
		return nil, fmt.Errorf("failed to get top courses: %w", err)
	}
	return stats, nil
}

func (r *PgAnalyticsRepository) GetCourseStats(ctx context.Context, courseID uuid.UUID) (*domain.CourseStats, error) {
	query := `
		SELECT
			c.id AS course_id,
			c.title,
			(SELECT COUNT(*) FROM payments p WHERE p.course_id = c.id AND p.status = $2) AS purchases,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.course_id = c.id AND p.status = $2) AS revenue,
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS learners,
			(SELECT COUNT(*) FROM lectures l WHERE l.course_id = c.id) AS lectures,
			(SELECT COUNT(*) FROM course_progress cp
			  WHERE cp.course_id = c.id AND cardinality(cp.completed_lectures) > 0) AS started,
			(SELECT COUNT(*) FROM course_progress cp
			  WHERE cp.course_id = c.id
			    AND EXISTS (SELECT 1 FROM lectures l WHERE l.course_id = c.id)
			    AND NOT EXISTS (
					SELECT 1 FROM lectures l
					WHERE l.course_id = c.id AND NOT (l.id = ANY(cp.completed_lectures))
				)) AS finished
		FROM courses c
		WHERE c.id = $1
	`
	var stats domain.CourseStats
	err := r.db.GetContext(ctx, &stats, query, courseID, paidStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course stats: %w", err)
	}
	return &stats, nil
}
