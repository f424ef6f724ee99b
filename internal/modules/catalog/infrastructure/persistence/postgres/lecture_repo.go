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
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
)

const lectureColumns = `id, course_id, title, description, video_url, position, created_at`

type PgLectureRepository struct {
	db *sqlx.DB
}

func NewLectureRepository(db *sqlx.DB) *PgLectureRepository {
	return &PgLectureRepository{db: db}
}

// Create appends the lecture at the end of its course
func (r *PgLectureRepository) Create(ctx context.Context, lecture *domain.Lecture) error {
	if lecture.ID == uuid.Nil {
		lecture.ID = uuid.New()
	}
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO lectures (id, course_id, title, description, video_url, position, created_at)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM lectures WHERE course_id = $2), $6)
		RETURNING position`

	err := r.db.QueryRowxContext(ctx, query,
		lecture.ID, lecture.CourseID, lecture.Title, lecture.Description, lecture.VideoURL, lecture.CreatedAt,
	).Scan(&lecture.Position)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrCourseNotFound
		}
		return fmt.Errorf("failed to insert lecture: %w", err)
	}
	return nil
}

func (r *PgLectureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	lecture := &domain.Lecture{}
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE id = $1`
	err := r.db.GetContext(ctx, lecture, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLectureNotFound
	}
	if err != nil {
		return nil, err
	}
	return lecture, nil
}

func (r *PgLectureRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lecture, error) {
	lectures := []domain.Lecture{}
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE course_id = $1 ORDER BY position, created_at`
	if err := r.db.SelectContext(ctx, &lectures, query, courseID); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *PgLectureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLectureNotFound
	}
	return nil
}
