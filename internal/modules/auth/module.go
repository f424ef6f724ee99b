package auth

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/auth/application"
	"github.com/saransh1220/coursehub/internal/modules/auth/domain"
	"github.com/saransh1220/coursehub/internal/modules/auth/infrastructure/persistence/postgres"
	auth_http "github.com/saransh1220/coursehub/internal/modules/auth/interfaces/http"
)

// Config is the slice of application config that accounts depend on.
type Config struct {
	JWTSecret      string
	JWTExpiry      time.Duration
	GoogleClientID string
	AdminEmails    []string
}

// Module owns user accounts: registration, sign-in and identity lookups
// for the rest of the application.
type Module struct {
	users   *postgres.PgUserRepository
	service *application.AuthService
	handler *auth_http.AuthHandler
}

func NewModule(db *sqlx.DB, cfg Config, files auth_http.FileService) *Module {
	users := postgres.NewUserRepository(db)
	service := application.NewAuthService(users, application.Options{
		JWTSecret:      cfg.JWTSecret,
		JWTExpiry:      cfg.JWTExpiry,
		GoogleClientID: cfg.GoogleClientID,
		AdminEmails:    cfg.AdminEmails,
	})

	return &Module{
		users:   users,
		service: service,
		handler: auth_http.NewAuthHandler(service, files),
	}
}

func (m *Module) Service() *application.AuthService { return m.service }

func (m *Module) HTTPHandler() *auth_http.AuthHandler { return m.handler }

// UserFinder is the read-only view handed to other modules.
func (m *Module) UserFinder() domain.UserFinder { return m.users }

// Users exposes the writable store for profile updates.
func (m *Module) Users() *postgres.PgUserRepository { return m.users }
