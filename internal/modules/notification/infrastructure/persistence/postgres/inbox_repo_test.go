package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/saransh1220/coursehub/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inboxColumns = []string{"id", "user_id", "course_id", "kind", "title", "message", "read_at", "created_at"}

func TestInboxRepository_Save(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := postgres.NewInboxRepository(db)

	courseID := uuid.New()
	n := &domain.Notification{UserID: uuid.New(), CourseID: &courseID, Title: "Enrolled", Message: "Go 101"}

	mock.ExpectExec(`INSERT INTO notifications \(id, user_id, course_id, kind, title, message, read_at, created_at\)`).
		WithArgs(sqlmock.AnyArg(), n.UserID, &courseID, domain.KindSystem, "Enrolled", "Go 101", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), n))
	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, domain.KindSystem, n.Kind)
	assert.False(t, n.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInboxRepository_List(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := postgres.NewInboxRepository(db)
	userID := uuid.New()
	courseID := uuid.New()
	readAt := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, course_id, kind, title, message, read_at, created_at FROM notifications WHERE user_id = \$1 ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs(userID, 10, 5).
		WillReturnRows(sqlmock.NewRows(inboxColumns).
			AddRow(uuid.New(), userID, courseID, "purchase", "Course purchased", "Go", readAt, time.Now()).
			AddRow(uuid.New(), userID, nil, "system", "Welcome", "hi", nil, time.Now()))

	items, err := repo.List(context.Background(), userID, 10, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.KindPurchase, items[0].Kind)
	require.NotNil(t, items[0].CourseID)
	assert.Equal(t, courseID, *items[0].CourseID)
	assert.True(t, items[0].Read())
	assert.Nil(t, items[1].CourseID)
	assert.False(t, items[1].Read())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInboxRepository_ListError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := postgres.NewInboxRepository(db)

	mock.ExpectQuery(`FROM notifications`).WillReturnError(errors.New("query fail"))

	items, err := repo.List(context.Background(), uuid.New(), 10, 0)
	require.EqualError(t, err, "query fail")
	assert.Nil(t, items)
}

func TestInboxRepository_MarkRead(t *testing.T) {
	userID, notificationID := uuid.New(), uuid.New()
	update := `UPDATE notifications SET read_at = COALESCE\(read_at, NOW\(\)\) WHERE id = \$1 AND user_id = \$2`

	tests := []struct {
		name    string
		result  func(*sqlmock.ExpectedExec)
		wantErr error
	}{
		{"marks", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) }, nil},
		{"not owned", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) }, domain.ErrNotificationNotFound},
		{"exec error", func(e *sqlmock.ExpectedExec) { e.WillReturnError(errors.New("exec fail")) }, errors.New("exec fail")},
		{"rows error", func(e *sqlmock.ExpectedExec) {
			e.WillReturnResult(sqlmock.NewErrorResult(errors.New("rows fail")))
		}, errors.New("rows fail")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			repo := postgres.NewInboxRepository(db)

			tt.result(mock.ExpectExec(update).WithArgs(notificationID, userID))

			err := repo.MarkRead(context.Background(), userID, notificationID)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, tt.wantErr.Error())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInboxRepository_MarkAllReadAndCount(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := postgres.NewInboxRepository(db)
	userID := uuid.New()
	ctx := context.Background()

	mock.ExpectExec(`UPDATE notifications SET read_at = NOW\(\) WHERE user_id = \$1 AND read_at IS NULL`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND read_at IS NULL`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	count, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	mock.ExpectExec(`UPDATE notifications`).WillReturnError(errors.New("exec fail"))
	_, err = repo.MarkAllRead(ctx, userID)
	require.EqualError(t, err, "exec fail")

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("count fail"))
	_, err = repo.CountUnread(ctx, userID)
	require.EqualError(t, err, "count fail")

	require.NoError(t, mock.ExpectationsWereMet())
}
