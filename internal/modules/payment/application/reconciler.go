package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

// Reconciler re-applies completed payments whose enrollment or progress row
// went missing after the ledger was written
type Reconciler struct {
	payments  domain.PaymentRepository
	fulfiller domain.Fulfiller
	metrics   OutcomeRecorder
	batch     int
	logger    *slog.Logger
}

func NewReconciler(payments domain.PaymentRepository, fulfiller domain.Fulfiller, metrics OutcomeRecorder, batch int, logger *slog.Logger) *Reconciler {
	if batch <= 0 {
		batch = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		payments:  payments,
		fulfiller: fulfiller,
		metrics:   metrics,
		batch:     batch,
		logger:    logger.With("component", "payment_reconciler"),
	}
}

// RunOnce processes one batch and returns how many payments were regranted
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.payments.FindUnfulfilled(ctx, r.batch)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, p := range pending {
		if err := r.fulfiller.Regrant(ctx, p.UserID, p.CourseID); err != nil {
			r.logger.Error("regrant failed", "order_id", p.OrderID, "error", err)
			continue
		}
		fixed++
		if r.metrics != nil {
			r.metrics.Purchase(domain.OutcomeRegranted)
		}
		r.logger.Info("regranted purchase", "order_id", p.OrderID, "user_id", p.UserID, "course_id", p.CourseID)
	}
	return fixed, nil
}

// Schedule registers the job on c. Runs never overlap.
func (r *Reconciler) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	job := cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		n, err := r.RunOnce(ctx)
		if err != nil {
			r.logger.Error("reconciliation failed", "error", err)
			return
		}
		if n > 0 {
			r.logger.Info("reconciliation finished", "regranted", n)
		}
	})
	return c.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(job))
}
