package notification

import (
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/notification/application"
	"github.com/saransh1220/coursehub/internal/modules/notification/infrastructure/mail"
	"github.com/saransh1220/coursehub/internal/modules/notification/infrastructure/persistence/postgres"
	"github.com/saransh1220/coursehub/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/saransh1220/coursehub/internal/modules/notification/interfaces/http"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
)

// Module owns the inbox, the live push hub and the receipt mailer.
// The hub goroutine runs until Shutdown.
type Module struct {
	service *application.NotificationService
	handler *notification_http.NotificationHandler
	hub     *websocket.Hub
}

func NewModule(db *sqlx.DB, mailCfg config.MailConfig) *Module {
	hub := websocket.NewHub()
	go hub.Run()

	service := application.NewNotificationService(
		postgres.NewInboxRepository(db),
		hub,
		mail.NewSendGridMailer(mail.Config{
			APIKey:    mailCfg.SendGridAPIKey,
			FromEmail: mailCfg.FromEmail,
			FromName:  mailCfg.FromName,
		}),
	)

	return &Module{
		service: service,
		handler: notification_http.NewNotificationHandler(service, hub),
		hub:     hub,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler { return m.handler }

func (m *Module) Service() *application.NotificationService { return m.service }

func (m *Module) Shutdown() {
	m.hub.Stop()
}
