package enrollment

import (
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/enrollment/application"
	persistence "github.com/saransh1220/coursehub/internal/modules/enrollment/infrastructure/persistence/postgres"
)

// Module represents the Enrollment module
type Module struct {
	access *application.AccessService
}

// NewModule creates and initializes the Enrollment module
func NewModule(db *sqlx.DB) *Module {
	return &Module{
		access: application.NewAccessService(persistence.NewEnrollmentRepository(db)),
	}
}

// Access returns the entitlement service used by catalog, payment and progress
func (m *Module) Access() *application.AccessService {
	return m.access
}
