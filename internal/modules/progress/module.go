package progress

import (
	"github.com/jmoiron/sqlx"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/progress/application"
	persistence "github.com/saransh1220/coursehub/internal/modules/progress/infrastructure/persistence/postgres"
	progressHttp "github.com/saransh1220/coursehub/internal/modules/progress/interfaces/http"
)

// Module represents the Progress module
type Module struct {
	service application.ProgressService
	handler *progressHttp.ProgressHandler
}

// NewModule creates and initializes the Progress module
func NewModule(db *sqlx.DB, courses catalogDomain.CourseFinder) *Module {
	service := application.NewProgressService(persistence.NewProgressRepository(db), courses)
	return &Module{
		service: service,
		handler: progressHttp.NewProgressHandler(service),
	}
}

func (m *Module) Service() application.ProgressService {
	return m.service
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *progressHttp.ProgressHandler {
	return m.handler
}
