package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/saransh1220/coursehub/internal/modules/progress/domain"
)

type progressRow struct {
	ID                uuid.UUID      `db:"id"`
	UserID            uuid.UUID      `db:"user_id"`
	CourseID          uuid.UUID      `db:"course_id"`
	CompletedLectures pq.StringArray `db:"completed_lectures"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r progressRow) toDomain() (*domain.Progress, error) {
	completed := make([]uuid.UUID, 0, len(r.CompletedLectures))
	for _, s := range r.CompletedLectures {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid lecture id %q in progress %s: %w", s, r.ID, err)
		}
		completed = append(completed, id)
	}
	return &domain.Progress{
		ID:                r.ID,
		UserID:            r.UserID,
		CourseID:          r.CourseID,
		CompletedLectures: completed,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

type PgProgressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) *PgProgressRepository {
	return &PgProgressRepository{db: db}
}

func (r *PgProgressRepository) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Progress, error) {
	var row progressRow
	query := `
		SELECT id, user_id, course_id, completed_lectures, created_at, updated_at
		FROM course_progress
		WHERE user_id = $1 AND course_id = $2`
	if err := r.db.GetContext(ctx, &row, query, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *PgProgressRepository) AppendLecture(ctx context.Context, userID, courseID, lectureID uuid.UUID) (bool, error) {
	query := `
		UPDATE course_progress
		SET completed_lectures = array_append(completed_lectures, $3::uuid), updated_at = NOW()
		WHERE user_id = $1 AND course_id = $2 AND NOT ($3::uuid = ANY(completed_lectures))`
	res, err := r.db.ExecContext(ctx, query, userID, courseID, lectureID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	check := `SELECT EXISTS(SELECT 1 FROM course_progress WHERE user_id = $1 AND course_id = $2)`
	if err := r.db.GetContext(ctx, &exists, check, userID, courseID); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrProgressNotFound
	}
	return false, nil
}
