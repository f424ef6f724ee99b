package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/database"
)

// PgFulfiller writes the ledger row, the enrollment and the progress row in
// one transaction. Every insert ignores conflicts so replays are harmless.
type PgFulfiller struct {
	db *sqlx.DB
}

func NewFulfiller(db *sqlx.DB) *PgFulfiller {
	return &PgFulfiller{db: db}
}

func (f *PgFulfiller) Fulfil(ctx context.Context, p *domain.Payment) (bool, error) {
	var recorded bool
	err := database.WithTx(ctx, f.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO payments (provider, order_id, capture_id, status, amount, currency, user_id, course_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT DO NOTHING`
		res, err := tx.ExecContext(ctx, query,
			p.Provider, p.OrderID, p.CaptureID, p.Status, p.Amount, p.Currency, p.UserID, p.CourseID)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		recorded = n > 0

		return grant(ctx, tx, p.UserID, p.CourseID)
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}

func (f *PgFulfiller) Regrant(ctx context.Context, userID, courseID uuid.UUID) error {
	return database.WithTx(ctx, f.db, func(tx *sqlx.Tx) error {
		return grant(ctx, tx, userID, courseID)
	})
}

func grant(ctx context.Context, tx *sqlx.Tx, userID, courseID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, courseID); err != nil {
		return fmt.Errorf("failed to grant enrollment: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO course_progress (user_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, courseID); err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}
