package catalog

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/saransh1220/coursehub/internal/modules/catalog/application"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/catalog/infrastructure/cache"
	persistence "github.com/saransh1220/coursehub/internal/modules/catalog/infrastructure/persistence/postgres"
	catalogHttp "github.com/saransh1220/coursehub/internal/modules/catalog/interfaces/http"
)

// Module represents the Catalog module
type Module struct {
	courses *persistence.PgCourseRepository
	cache   *cache.CourseCache
	service application.CourseService
	handler *catalogHttp.CourseHandler
}

// NewModule creates and initializes the Catalog module. redisClient may be
// nil, which disables response caching.
func NewModule(
	db *sqlx.DB,
	redisClient *redis.Client,
	entitlements application.Entitlements,
	assets application.AssetStore,
	fileService catalogHttp.FileService,
) *Module {
	courses := persistence.NewCourseRepository(db)
	lectures := persistence.NewLectureRepository(db)
	courseCache := cache.NewCourseCache(redisClient, cache.DefaultTTL)

	service := application.NewCourseService(courses, lectures, courses, entitlements, assets)
	handler := catalogHttp.NewCourseHandler(service, fileService, courseCache)

	return &Module{
		courses: courses,
		cache:   courseCache,
		service: service,
		handler: handler,
	}
}

// CourseFinder returns the read-only course view for other modules (payment, progress)
func (m *Module) CourseFinder() domain.CourseFinder {
	return m.courses
}

// Cache returns the response cache so other modules can invalidate entries
func (m *Module) Cache() *cache.CourseCache {
	return m.cache
}

// Service returns the course service
func (m *Module) Service() application.CourseService {
	return m.service
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *catalogHttp.CourseHandler {
	return m.handler
}
