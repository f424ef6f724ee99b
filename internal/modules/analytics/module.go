package analytics

import (
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/analytics/application"
	"github.com/saransh1220/coursehub/internal/modules/analytics/infrastructure/persistence/postgres"
	analytics_http "github.com/saransh1220/coursehub/internal/modules/analytics/interfaces/http"
)

// Module builds the admin sales reports. It only reads tables owned by
// catalog, payment, enrollment and progress.
type Module struct {
	reports application.AnalyticsService
	handler *analytics_http.AnalyticsHandler
}

func NewModule(db *sqlx.DB) *Module {
	reports := application.NewAnalyticsService(postgres.NewAnalyticsRepository(db))
	return &Module{reports: reports, handler: analytics_http.NewAnalyticsHandler(reports)}
}

func (m *Module) HTTPHandler() *analytics_http.AnalyticsHandler { return m.handler }

func (m *Module) Service() application.AnalyticsService { return m.reports }
