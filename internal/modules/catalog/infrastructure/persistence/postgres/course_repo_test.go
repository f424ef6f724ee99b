package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/catalog/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseCols = []string{
	"id", "title", "description", "category", "image_url", "thumbnail_url",
	"price", "duration", "created_by", "created_at", "updated_at", "lecture_count",
}

func courseRow(id uuid.UUID, title string, price string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, title, "desc", "go", "http://img", nil, price, "3h", nil, now, now, 4}
}

func TestCourseRepository_Create(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)

	mock.ExpectExec(`INSERT INTO courses`).WillReturnResult(sqlmock.NewResult(1, 1))

	c := &domain.Course{Title: "Go", Price: 49.99}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_GetByID(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM courses c WHERE c.id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(courseCols).AddRow(courseRow(id, "Go", "49.99")...))

	c, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Go", c.Title)
	assert.Equal(t, 49.99, c.Price)
	assert.Equal(t, 4, c.LectureCount)
	assert.Nil(t, c.CreatedBy)

	mock.ExpectQuery(`SELECT (.+) FROM courses c WHERE c.id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)

	mock.ExpectQuery(`SELECT (.+) FROM courses c WHERE c.id = \$1`).WithArgs(id).WillReturnError(assert.AnError)
	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_ListFilters(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)

	mock.ExpectQuery(`FROM courses c WHERE 1=1 ORDER BY c.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(courseCols).
			AddRow(courseRow(uuid.New(), "A", "10.00")...).
			AddRow(courseRow(uuid.New(), "B", "0.00")...))

	all, err := repo.List(context.Background(), domain.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mock.ExpectQuery(`c.category ILIKE \$1 AND \(c.title ILIKE \$2 OR c.description ILIKE \$2\)`).
		WithArgs("go", "%conc%").
		WillReturnRows(sqlmock.NewRows(courseCols))

	none, err := repo.List(context.Background(), domain.CourseFilter{Category: "go", Keyword: "conc"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_ListByIDs(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)

	empty, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	id := uuid.New()
	mock.ExpectQuery(`WHERE c.id = ANY\(\$1::uuid\[\]\)`).
		WillReturnRows(sqlmock.NewRows(courseCols).AddRow(courseRow(id, "Mine", "5.00")...))

	got, err := repo.ListByIDs(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Delete(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM courses WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(`DELETE FROM courses WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrCourseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_LectureIDs(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := postgres.NewCourseRepository(db)
	courseID, l1, l2 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id FROM lectures WHERE course_id = \$1`).
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(l1).AddRow(l2))

	ids, err := repo.LectureIDs(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{l1, l2}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
