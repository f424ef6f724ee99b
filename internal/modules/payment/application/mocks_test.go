package application

import (
	"context"

	"github.com/google/uuid"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	notificationDomain "github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
	"github.com/stretchr/testify/mock"
)

type userFinderMock struct{ mock.Mock }

func (m *userFinderMock) FindByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *userFinderMock) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type courseFinderMock struct{ mock.Mock }

func (m *courseFinderMock) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.Course), args.Error(1)
}

func (m *courseFinderMock) LectureIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type ownershipMock struct{ mock.Mock }

func (m *ownershipMock) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Name() string { return "paypal" }

func (m *gatewayMock) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderHandle, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.OrderHandle), args.Error(1)
}

func (m *gatewayMock) CaptureOrder(ctx context.Context, orderID string) (domain.CaptureResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.CaptureResult), args.Error(1)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *paymentRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *paymentRepoMock) FindUnfulfilled(ctx context.Context, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type fulfillerMock struct{ mock.Mock }

func (m *fulfillerMock) Fulfil(ctx context.Context, p *domain.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *fulfillerMock) Regrant(ctx context.Context, userID, courseID uuid.UUID) error {
	return m.Called(ctx, userID, courseID).Error(0)
}

type lockStub struct {
	held     bool
	err      error
	released int
}

func (l *lockStub) Acquire(ctx context.Context, orderID string) (func(), bool, error) {
	if l.err != nil {
		return func() {}, false, l.err
	}
	if l.held {
		return func() {}, false, nil
	}
	return func() { l.released++ }, true, nil
}

type notifierStub struct {
	receipts []notificationDomain.PurchaseReceipt
	err      error
}

func (n *notifierStub) NotifyPurchase(ctx context.Context, r notificationDomain.PurchaseReceipt) error {
	n.receipts = append(n.receipts, r)
	return n.err
}

type cacheStub struct {
	invalidated []uuid.UUID
}

func (c *cacheStub) InvalidateMyCourses(ctx context.Context, userID uuid.UUID) {
	c.invalidated = append(c.invalidated, userID)
}

type recorderStub struct {
	outcomes []string
}

func (r *recorderStub) Purchase(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}
