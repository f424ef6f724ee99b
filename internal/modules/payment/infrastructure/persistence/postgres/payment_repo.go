package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

const paymentColumns = `id, provider, order_id, capture_id, status, amount, currency, user_id, course_id, created_at`

type PgPaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PgPaymentRepository {
	return &PgPaymentRepository{db: db}
}

func (r *PgPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	if err := r.db.GetContext(ctx, &p, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &payments, query, userID); err != nil {
		return nil, err
	}
	return payments, nil
}

// FindUnfulfilled skips payments whose user or course has since been deleted
func (r *PgPaymentRepository) FindUnfulfilled(ctx context.Context, limit int) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	query := `
		SELECT p.id, p.provider, p.order_id, p.capture_id, p.status, p.amount, p.currency, p.user_id, p.course_id, p.created_at
		FROM payments p
		JOIN users u ON u.id = p.user_id
		JOIN courses c ON c.id = p.course_id
		WHERE p.status = $1
		  AND (
			NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.user_id = p.user_id AND e.course_id = p.course_id)
			OR NOT EXISTS (SELECT 1 FROM course_progress cp WHERE cp.user_id = p.user_id AND cp.course_id = p.course_id)
		  )
		ORDER BY p.created_at
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &payments, query, domain.CaptureCompleted, limit); err != nil {
		return nil, err
	}
	return payments, nil
}
