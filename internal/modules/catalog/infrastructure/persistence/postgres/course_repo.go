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

const courseSelect = `
	SELECT c.id, c.title, c.description, c.category, c.image_url, c.thumbnail_url,
	       c.price, c.duration, c.created_by, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM lectures l WHERE l.course_id = c.id) AS lecture_count
	FROM courses c`

type PgCourseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *PgCourseRepository {
	return &PgCourseRepository{db: db}
}

func (r *PgCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	query := `
		INSERT INTO courses (
			id, title, description, category, image_url, thumbnail_url,
			price, duration, created_by, created_at, updated_at
		) VALUES (
			:id, :title, :description, :category, :image_url, :thumbnail_url,
			:price, :duration, :created_by, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *PgCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course := &domain.Course{}
	err := r.db.GetContext(ctx, course, courseSelect+` WHERE c.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *PgCourseRepository) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	query := courseSelect + ` WHERE 1=1`
	args := []interface{}{}
	argId := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND c.category ILIKE $%d", argId)
		args = append(args, filter.Category)
		argId++
	}

	if filter.Keyword != "" {
		query += fmt.Sprintf(" AND (c.title ILIKE $%d OR c.description ILIKE $%d)", argId, argId)
		args = append(args, "%"+filter.Keyword+"%")
		argId++
	}

	query += " ORDER BY c.created_at DESC"

	courses := []domain.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByIDs returns the courses with the given ids, newest first. Unknown ids
// are skipped.
func (r *PgCourseRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	courses := []domain.Course{}
	if len(ids) == 0 {
		return courses, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := courseSelect + ` WHERE c.id = ANY($1::uuid[]) ORDER BY c.created_at DESC`
	if err := r.db.SelectContext(ctx, &courses, query, pq.StringArray(strIDs)); err != nil {
		return nil, err
	}
	return courses, nil
}

// Delete removes the course; lectures, enrollments and progress rows cascade.
// Payment rows are kept.
func (r *PgCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// FindByID implements domain.CourseFinder
func (r *PgCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return r.GetByID(ctx, id)
}

// LectureIDs implements domain.CourseFinder
func (r *PgCourseRepository) LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `SELECT id FROM lectures WHERE course_id = $1 ORDER BY position, created_at`
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, err
	}
	return ids, nil
}
