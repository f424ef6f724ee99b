package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
)

// Websocket event names
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
)

// Event is the frame written to a user's websocket connections
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Pusher delivers a payload to a user's open connections
type Pusher interface {
	SendToUser(userID uuid.UUID, message []byte)
}

type Mailer interface {
	SendReceipt(ctx context.Context, receipt domain.PurchaseReceipt) error
}

type NotificationService struct {
	inbox  domain.Inbox
	pusher Pusher
	mailer Mailer
}

func NewNotificationService(inbox domain.Inbox, pusher Pusher, mailer Mailer) *NotificationService {
	return &NotificationService{inbox: inbox, pusher: pusher, mailer: mailer}
}

// Publish stores n and pushes it live. A failed push is only logged since
// the client catches up from the list endpoint.
func (s *NotificationService) Publish(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Kind == "" {
		n.Kind = domain.KindSystem
	}
	n.CreatedAt = time.Now().UTC()
	n.ReadAt = nil

	if err := s.inbox.Save(ctx, &n); err != nil {
		return nil, err
	}
	s.push(n.UserID, Event{Type: EventNotification, Data: n})
	return &n, nil
}

// NotifyPurchase records an in-app notification and emails a receipt. Both
// are attempted; the returned error joins whichever failed.
func (s *NotificationService) NotifyPurchase(ctx context.Context, r domain.PurchaseReceipt) error {
	var errs []error

	courseID := r.CourseID
	_, err := s.Publish(ctx, domain.Notification{
		UserID:   r.UserID,
		CourseID: &courseID,
		Kind:     domain.KindPurchase,
		Title:    "Course purchased",
		Message:  fmt.Sprintf("You now have access to %s.", r.CourseTitle),
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("notification: %w", err))
	}
	if s.mailer != nil {
		if err := s.mailer.SendReceipt(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("receipt: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	return s.inbox.List(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.inbox.MarkRead(ctx, userID, notificationID); err != nil {
		return err
	}
	s.syncUnread(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	n, err := s.inbox.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.push(userID, Event{Type: EventUnreadCount, Data: map[string]int{"count": 0}})
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.inbox.CountUnread(ctx, userID)
}

// syncUnread keeps badge counts in other tabs current
func (s *NotificationService) syncUnread(ctx context.Context, userID uuid.UUID) {
	if s.pusher == nil {
		return
	}
	count, err := s.inbox.CountUnread(ctx, userID)
	if err != nil {
		log.Printf("[NotificationService.syncUnread] %v", err)
		return
	}
	s.push(userID, Event{Type: EventUnreadCount, Data: map[string]int{"count": count}})
}

func (s *NotificationService) push(userID uuid.UUID, ev Event) {
	if s.pusher == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[NotificationService.push] marshal %s: %v", ev.Type, err)
		return
	}
	s.pusher.SendToUser(userID, payload)
}
