package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/saransh1220/coursehub/internal/gateway"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	"github.com/saransh1220/coursehub/internal/modules/analytics"
	"github.com/saransh1220/coursehub/internal/modules/auth"
	"github.com/saransh1220/coursehub/internal/modules/catalog"
	"github.com/saransh1220/coursehub/internal/modules/enrollment"
	"github.com/saransh1220/coursehub/internal/modules/filestorage"
	"github.com/saransh1220/coursehub/internal/modules/notification"
	"github.com/saransh1220/coursehub/internal/modules/payment"
	"github.com/saransh1220/coursehub/internal/modules/progress"
	"github.com/saransh1220/coursehub/internal/modules/user"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/database"
	"github.com/saransh1220/coursehub/pkg/migration"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.LoadDotEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("connecting to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	db, err := database.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Server.MigrationsPath, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		// caching and the purchase lock degrade to no-ops
		logger.Warn("redis unavailable, continuing without it", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	a, err := newApp(ctx, db, redisClient, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	a.cron.Start()
	server := gateway.NewServer(a.handler, gateway.ServerOptions{
		Addr:          ":" + cfg.Server.Port,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		ShutdownGrace: cfg.Server.ShutdownGrace,
	})
	return server.Start(ctx)
}

type app struct {
	handler       http.Handler
	cron          *cron.Cron
	notifications *notification.Module
}

// newApp wires the modules together. Nothing touches the database or redis
// until a request or job runs.
func newApp(ctx context.Context, db *sqlx.DB, redisClient *redis.Client, cfg config.Config, logger *slog.Logger) (*app, error) {
	files, err := filestorage.NewModule(ctx, cfg.FileStorage)
	if err != nil {
		return nil, err
	}

	authModule := auth.NewModule(db, auth.Config{
		JWTSecret:      cfg.JWT.Secret,
		JWTExpiry:      cfg.JWT.Expiry,
		GoogleClientID: cfg.Google.ClientID,
		AdminEmails:    cfg.Auth.AdminEmails,
	}, files.Service())

	enrollments := enrollment.NewModule(db)
	catalogModule := catalog.NewModule(db, redisClient, enrollments.Access(), files.Service(), files.Service())
	notifications := notification.NewModule(db, cfg.Mail)

	payments, err := payment.NewModule(db, redisClient, cfg.Payment, cfg.Jobs, payment.Collaborators{
		Users:     authModule.UserFinder(),
		Courses:   catalogModule.CourseFinder(),
		Ownership: enrollments.Access(),
		Notifier:  notifications.Service(),
		Cache:     catalogModule.Cache(),
	}, logger)
	if err != nil {
		notifications.Shutdown()
		return nil, fmt.Errorf("failed to initialize payments: %w", err)
	}

	progressModule := progress.NewModule(db, catalogModule.CourseFinder())
	users := user.NewModule(authModule.Users(), files.Service())
	reports := analytics.NewModule(db)

	scheduler := cron.New()
	if _, err := payments.Reconciler().Schedule(scheduler, cfg.Jobs.ReconcileSchedule); err != nil {
		notifications.Shutdown()
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", cfg.Jobs.ReconcileSchedule, err)
	}

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthHandler:         authModule.HTTPHandler(),
		AuthMiddleware:      middleware.NewAuthMiddleware(cfg.JWT.Secret),
		CourseHandler:       catalogModule.HTTPHandler(),
		PaymentHandler:      payments.HTTPHandler(),
		ProgressHandler:     progressModule.HTTPHandler(),
		NotificationHandler: notifications.HTTPHandler(),
		UserHandler:         users.HTTPHandler(),
		AnalyticsHandler:    reports.HTTPHandler(),
		UploadsDir:          files.LocalPath(),
	})

	logger.Info("modules initialized", "payment_provider", payments.Gateway().Name(), "s3", cfg.FileStorage.UseS3)

	return &app{
		handler:       middleware.CORSMiddleware(middleware.PrometheusMiddleware(mux), cfg.Server.AllowedOrigins),
		cron:          scheduler,
		notifications: notifications,
	}, nil
}

func (a *app) close() {
	<-a.cron.Stop().Done()
	a.notifications.Shutdown()
}
