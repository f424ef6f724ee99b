package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	analytics_http "github.com/saransh1220/coursehub/internal/modules/analytics/interfaces/http"
	auth_http "github.com/saransh1220/coursehub/internal/modules/auth/interfaces/http"
	catalog_http "github.com/saransh1220/coursehub/internal/modules/catalog/interfaces/http"
	notification_http "github.com/saransh1220/coursehub/internal/modules/notification/interfaces/http"
	payment_http "github.com/saransh1220/coursehub/internal/modules/payment/interfaces/http"
	progress_http "github.com/saransh1220/coursehub/internal/modules/progress/interfaces/http"
	user_http "github.com/saransh1220/coursehub/internal/modules/user/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthHandler         *auth_http.AuthHandler
	AuthMiddleware      *middleware.Authenticator
	CourseHandler       *catalog_http.CourseHandler
	PaymentHandler      *payment_http.PaymentHandler
	ProgressHandler     *progress_http.ProgressHandler
	NotificationHandler *notification_http.NotificationHandler
	UserHandler         *user_http.UserHandler
	AnalyticsHandler    *analytics_http.AnalyticsHandler

	// UploadsDir is served at /uploads/ when files are kept on local disk.
	UploadsDir string
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	auth := config.AuthMiddleware

	// Health Check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth Routes
	mux.HandleFunc("POST /auth/register", config.AuthHandler.Register)
	mux.HandleFunc("POST /auth/login", config.AuthHandler.Login)
	mux.HandleFunc("POST /auth/google", config.AuthHandler.GoogleLogin)
	mux.Handle("GET /auth/me", auth.RequireAuth(http.HandlerFunc(config.AuthHandler.Me)))

	// User Routes
	mux.Handle("PATCH /users/profile", auth.RequireAuth(http.HandlerFunc(config.UserHandler.UpdateProfile)))
	mux.Handle("POST /users/profile/avatar", auth.RequireAuth(http.HandlerFunc(config.UserHandler.UploadAvatar)))
	mux.HandleFunc("GET /users/{id}/public", config.UserHandler.GetPublicProfile)

	// Catalog Routes
	mux.HandleFunc("GET /courses", config.CourseHandler.List)
	mux.HandleFunc("GET /courses/{id}", config.CourseHandler.Get)
	mux.Handle("GET /courses/{id}/lectures", auth.RequireAuth(http.HandlerFunc(config.CourseHandler.ListLectures)))
	mux.Handle("GET /lectures/{id}", auth.RequireAuth(http.HandlerFunc(config.CourseHandler.GetLecture)))
	mux.Handle("GET /my-courses", auth.RequireAuth(http.HandlerFunc(config.CourseHandler.MyCourses)))

	// Purchase Routes
	mux.Handle("POST /courses/{id}/checkout", auth.RequireAuth(http.HandlerFunc(config.PaymentHandler.Checkout)))
	mux.Handle("POST /courses/{id}/verify", auth.RequireAuth(http.HandlerFunc(config.PaymentHandler.Verify)))
	mux.Handle("GET /payments", auth.RequireAuth(http.HandlerFunc(config.PaymentHandler.ListPayments)))

	// Progress Routes
	mux.Handle("POST /progress", auth.RequireAuth(http.HandlerFunc(config.ProgressHandler.Record)))
	mux.Handle("GET /progress", auth.RequireAuth(http.HandlerFunc(config.ProgressHandler.Get)))

	// Admin Routes
	mux.Handle("POST /admin/courses", auth.RequireAdmin(http.HandlerFunc(config.CourseHandler.Create)))
	mux.Handle("DELETE /admin/courses/{id}", auth.RequireAdmin(http.HandlerFunc(config.CourseHandler.Delete)))
	mux.Handle("POST /admin/courses/{id}/lectures", auth.RequireAdmin(http.HandlerFunc(config.CourseHandler.AddLecture)))
	mux.Handle("DELETE /admin/lectures/{id}", auth.RequireAdmin(http.HandlerFunc(config.CourseHandler.DeleteLecture)))

	// Analytics Routes
	mux.Handle("GET /admin/analytics/overview", auth.RequireAdmin(http.HandlerFunc(config.AnalyticsHandler.GetOverview)))
	mux.Handle("GET /admin/analytics/top-courses", auth.RequireAdmin(http.HandlerFunc(config.AnalyticsHandler.GetTopCourses)))
	mux.Handle("GET /admin/courses/{id}/analytics", auth.RequireAdmin(http.HandlerFunc(config.AnalyticsHandler.GetCourseStats)))

	// Notification Routes
	mux.Handle("GET /notifications", auth.RequireAuth(http.HandlerFunc(config.NotificationHandler.ListNotifications)))
	mux.Handle("PATCH /notifications/{id}/read", auth.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAsRead)))
	mux.Handle("PATCH /notifications/read-all", auth.RequireAuth(http.HandlerFunc(config.NotificationHandler.MarkAllAsRead)))
	mux.Handle("GET /notifications/unread-count", auth.RequireAuth(http.HandlerFunc(config.NotificationHandler.UnreadCount)))
	mux.Handle("GET /ws", auth.RequireAuth(http.HandlerFunc(config.NotificationHandler.Subscribe)))

	if config.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadsDir))))
	}

	return mux
}
