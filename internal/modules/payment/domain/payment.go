package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Payment is one row of the append-only payment ledger
type Payment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Provider  string    `json:"provider" db:"provider"`
	OrderID   string    `json:"order_id" db:"order_id"`
	CaptureID string    `json:"capture_id" db:"capture_id"`
	Status    string    `json:"status" db:"status"`
	Amount    float64   `json:"amount" db:"amount"`
	Currency  string    `json:"currency" db:"currency"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CourseID  uuid.UUID `json:"course_id" db:"course_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BelongsTo reports whether the ledger row is for this buyer and course
func (p *Payment) BelongsTo(userID, courseID uuid.UUID) bool {
	return p.UserID == userID && p.CourseID == courseID
}

type PaymentRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	// FindUnfulfilled returns completed payments whose enrollment or progress row is missing
	FindUnfulfilled(ctx context.Context, limit int) ([]Payment, error)
}

// Fulfiller applies a captured payment in a single transaction
type Fulfiller interface {
	// Fulfil appends the ledger row, grants the enrollment and creates the
	// progress row. Each insert ignores conflicts. recorded is false when the
	// ledger already held the order.
	Fulfil(ctx context.Context, payment *Payment) (recorded bool, err error)
	// Regrant repeats the enrollment and progress inserts without touching the ledger
	Regrant(ctx context.Context, userID, courseID uuid.UUID) error
}

// OrderLock serialises verification of one order across requests
type OrderLock interface {
	// Acquire returns ok=false when another request holds the lock
	Acquire(ctx context.Context, orderID string) (release func(), ok bool, err error)
}
