package notification_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/notification"
	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModule_PurchaseReachesInbox(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	// no API key: the receipt mail is a logged no-op
	m := notification.NewModule(sqlx.NewDb(sqlDB, "sqlmock"), config.MailConfig{FromEmail: "no-reply@coursehub.local"})
	defer m.Shutdown()
	assert.NotNil(t, m.HTTPHandler())

	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 1))

	err = m.Service().NotifyPurchase(context.Background(), domain.PurchaseReceipt{
		UserID:      uuid.New(),
		Email:       "ada@example.com",
		CourseID:    uuid.New(),
		CourseTitle: "Go",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
