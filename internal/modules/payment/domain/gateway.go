package domain

import "context"

// CaptureCompleted is the only capture status that means the money moved
const CaptureCompleted = "COMPLETED"

type OrderRequest struct {
	Amount      float64
	Currency    string
	ReferenceID string // course id
	CustomID    string // buyer id
}

// OrderHandle identifies an order at the processor
type OrderHandle struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CaptureResult struct {
	Status      string
	CaptureID   string
	ReferenceID string // course id
	CustomID    string // buyer id
	Amount      float64
	Currency    string
}

// Completed reports whether the capture finished successfully
func (r CaptureResult) Completed() bool {
	return r.Status == CaptureCompleted
}

// Gateway is a payment processor. Both calls fail with an error wrapping
// ErrGatewayUnavailable or ErrGatewayRejected. A nil error from CaptureOrder
// does not mean the payment succeeded; check Completed.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (OrderHandle, error)
	CaptureOrder(ctx context.Context, orderID string) (CaptureResult, error)
}
