package payment

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/application"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/infrastructure/lock"
	"github.com/saransh1220/coursehub/internal/modules/payment/infrastructure/metrics"
	"github.com/saransh1220/coursehub/internal/modules/payment/infrastructure/paypal"
	persistence "github.com/saransh1220/coursehub/internal/modules/payment/infrastructure/persistence/postgres"
	"github.com/saransh1220/coursehub/internal/modules/payment/infrastructure/razorpay"
	paymentHttp "github.com/saransh1220/coursehub/internal/modules/payment/interfaces/http"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
)

// Module represents the Payment module
type Module struct {
	gateway    domain.Gateway
	service    application.PurchaseService
	reconciler *application.Reconciler
	handler    *paymentHttp.PaymentHandler
}

// Collaborators are the other modules the purchase workflow talks to
type Collaborators struct {
	Users     authDomain.UserFinder
	Courses   catalogDomain.CourseFinder
	Ownership application.OwnershipChecker
	Notifier  application.PurchaseNotifier
	Cache     application.MyCoursesInvalidator
}

// NewModule creates and initializes the Payment module. redisClient may be
// nil, in which case verification runs without the per-order lock.
func NewModule(
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg config.PaymentConfig,
	jobs config.JobsConfig,
	deps Collaborators,
	logger *slog.Logger,
) (*Module, error) {
	gateway, err := NewGateway(cfg)
	if err != nil {
		return nil, err
	}

	payments := persistence.NewPaymentRepository(db)
	fulfiller := persistence.NewFulfiller(db)
	recorder := metrics.Recorder{}

	service := application.NewPurchaseService(application.Deps{
		Users:     deps.Users,
		Courses:   deps.Courses,
		Ownership: deps.Ownership,
		Gateway:   gateway,
		Payments:  payments,
		Fulfiller: fulfiller,
		Lock:      lock.NewRedisOrderLock(redisClient, lock.DefaultTTL),
		Notifier:  deps.Notifier,
		Cache:     deps.Cache,
		Metrics:   recorder,
		Currency:  cfg.Currency,
	})

	return &Module{
		gateway:    gateway,
		service:    service,
		reconciler: application.NewReconciler(payments, fulfiller, recorder, jobs.ReconcileBatch, logger),
		handler:    paymentHttp.NewPaymentHandler(service),
	}, nil
}

// NewGateway builds the configured payment processor, wrapped with latency metrics
func NewGateway(cfg config.PaymentConfig) (domain.Gateway, error) {
	switch cfg.Provider {
	case paypal.ProviderName, "":
		return metrics.NewInstrumentedGateway(paypal.NewClient(paypal.Config{
			BaseURL:      cfg.PayPal.BaseURL,
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
		})), nil
	case razorpay.ProviderName:
		return metrics.NewInstrumentedGateway(razorpay.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

func (m *Module) Gateway() domain.Gateway {
	return m.gateway
}

func (m *Module) Service() application.PurchaseService {
	return m.service
}

// Reconciler returns the job that repairs lost entitlements
func (m *Module) Reconciler() *application.Reconciler {
	return m.reconciler
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *paymentHttp.PaymentHandler {
	return m.handler
}
