package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Kind groups notifications for the client's icon and filtering
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindCourse   Kind = "course"
	KindSystem   Kind = "system"
)

type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	CourseID  *uuid.UUID `json:"course_id,omitempty" db:"course_id"`
	Kind      Kind       `json:"kind" db:"kind"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (n Notification) Read() bool { return n.ReadAt != nil }

// Inbox is the per-user notification store. Every read and write is scoped
// to the owning user.
type Inbox interface {
	Save(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
