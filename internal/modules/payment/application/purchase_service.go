package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	notificationDomain "github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

// OwnershipChecker reports existing enrollments
type OwnershipChecker interface {
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type PurchaseNotifier interface {
	NotifyPurchase(ctx context.Context, receipt notificationDomain.PurchaseReceipt) error
}

// MyCoursesInvalidator drops a user's cached course list
type MyCoursesInvalidator interface {
	InvalidateMyCourses(ctx context.Context, userID uuid.UUID)
}

type OutcomeRecorder interface {
	Purchase(outcome string)
}

type CheckoutResult struct {
	OrderID string                `json:"orderID"`
	Course  *catalogDomain.Course `json:"course"`
}

type PurchaseOutcome struct {
	Status           string          `json:"status"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
	Payment          *domain.Payment `json:"payment,omitempty"`
}

type PurchaseService interface {
	StartPurchase(ctx context.Context, userID, courseID uuid.UUID) (*CheckoutResult, error)
	VerifyPurchase(ctx context.Context, userID, courseID uuid.UUID, orderID string) (*PurchaseOutcome, error)
	ListPayments(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error)
}

type Deps struct {
	Users     authDomain.UserFinder
	Courses   catalogDomain.CourseFinder
	Ownership OwnershipChecker
	Gateway   domain.Gateway
	Payments  domain.PaymentRepository
	Fulfiller domain.Fulfiller
	Lock      domain.OrderLock
	Notifier  PurchaseNotifier
	Cache     MyCoursesInvalidator
	Metrics   OutcomeRecorder
	Currency  string
}

type purchaseService struct {
	Deps
}

func NewPurchaseService(deps Deps) PurchaseService {
	if deps.Currency == "" {
		deps.Currency = "USD"
	}
	return &purchaseService{Deps: deps}
}

func (s *purchaseService) StartPurchase(ctx context.Context, userID, courseID uuid.UUID) (*CheckoutResult, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	owned, err := s.Ownership.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if owned {
		s.record(domain.OutcomeAlreadyOwned)
		return nil, domain.ErrAlreadyOwned
	}

	handle, err := s.Gateway.CreateOrder(ctx, domain.OrderRequest{
		Amount:      course.Price,
		Currency:    s.Currency,
		ReferenceID: courseID.String(),
		CustomID:    userID.String(),
	})
	if err != nil {
		log.Printf("[PurchaseService.StartPurchase] create order failed for course %s: %v", courseID, err)
		s.record(domain.OutcomeGatewayError)
		return nil, err
	}

	s.record(domain.OutcomeCheckout)
	return &CheckoutResult{OrderID: handle.ID, Course: course}, nil
}

func (s *purchaseService) VerifyPurchase(ctx context.Context, userID, courseID uuid.UUID, orderID string) (*PurchaseOutcome, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrMissingOrderID
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	release, ok, err := s.Lock.Acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.record(domain.OutcomeInProgress)
		return nil, domain.ErrPurchaseInProgress
	}
	defer release()

	existing, err := s.Payments.GetByOrderID(ctx, orderID)
	switch {
	case err == nil:
		return s.replay(ctx, existing, userID, courseID)
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return nil, err
	}

	capture, err := s.Gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		log.Printf("[PurchaseService.VerifyPurchase] capture failed for order %s: %v", orderID, err)
		s.record(domain.OutcomeGatewayError)
		return nil, err
	}
	if !capture.Completed() {
		log.Printf("[PurchaseService.VerifyPurchase] order %s not completed: %s", orderID, capture.Status)
		s.record(domain.OutcomeFailed)
		return nil, domain.ErrPaymentFailed
	}
	if (capture.ReferenceID != "" && capture.ReferenceID != courseID.String()) ||
		(capture.CustomID != "" && capture.CustomID != userID.String()) {
		log.Printf("[PurchaseService.VerifyPurchase] order %s was placed for course %q by %q", orderID, capture.ReferenceID, capture.CustomID)
		s.record(domain.OutcomeMismatch)
		return nil, domain.ErrOrderMismatch
	}

	payment := &domain.Payment{
		Provider:  s.Gateway.Name(),
		OrderID:   orderID,
		CaptureID: capture.CaptureID,
		Status:    capture.Status,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now(),
	}
	if payment.CaptureID == "" {
		payment.CaptureID = orderID
	}
	if payment.Amount == 0 {
		payment.Amount = course.Price
	}
	if payment.Currency == "" {
		payment.Currency = s.Currency
	}

	recorded, err := s.Fulfiller.Fulfil(ctx, payment)
	if err != nil {
		log.Printf("[PurchaseService.VerifyPurchase] fulfilment failed for order %s: %v", orderID, err)
		return nil, err
	}

	s.invalidate(ctx, userID)
	if !recorded {
		// a concurrent verification got there first
		s.record(domain.OutcomeAlreadyProcessed)
		return &PurchaseOutcome{Status: domain.StatusPurchased, AlreadyProcessed: true, Payment: payment}, nil
	}

	s.record(domain.OutcomePurchased)
	s.notify(ctx, user, course, payment)
	return &PurchaseOutcome{Status: domain.StatusPurchased, Payment: payment}, nil
}

// replay handles an order that is already in the ledger
func (s *purchaseService) replay(ctx context.Context, existing *domain.Payment, userID, courseID uuid.UUID) (*PurchaseOutcome, error) {
	if !existing.BelongsTo(userID, courseID) {
		s.record(domain.OutcomeMismatch)
		return nil, domain.ErrOrderMismatch
	}
	if err := s.Fulfiller.Regrant(ctx, userID, courseID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.record(domain.OutcomeAlreadyProcessed)
	return &PurchaseOutcome{Status: domain.StatusPurchased, AlreadyProcessed: true, Payment: existing}, nil
}

func (s *purchaseService) ListPayments(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error) {
	return s.Payments.ListByUser(ctx, userID)
}

func (s *purchaseService) notify(ctx context.Context, user *authDomain.User, course *catalogDomain.Course, p *domain.Payment) {
	if s.Notifier == nil {
		return
	}
	err := s.Notifier.NotifyPurchase(ctx, notificationDomain.PurchaseReceipt{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Currency:    p.Currency,
	})
	if err != nil {
		log.Printf("[PurchaseService.notify] order %s: %v", p.OrderID, err)
	}
}

func (s *purchaseService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.Cache != nil {
		s.Cache.InvalidateMyCourses(ctx, userID)
	}
}

func (s *purchaseService) record(outcome string) {
	if s.Metrics != nil {
		s.Metrics.Purchase(outcome)
	}
}
