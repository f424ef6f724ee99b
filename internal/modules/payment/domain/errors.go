package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentGateway is the single class every processor failure belongs to
	ErrPaymentGateway     = errors.New("payment gateway error")
	ErrGatewayUnavailable = fmt.Errorf("%w: gateway unavailable", ErrPaymentGateway)
	ErrGatewayRejected    = fmt.Errorf("%w: request rejected", ErrPaymentGateway)

	ErrAlreadyOwned       = errors.New("you already have this course")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrOrderMismatch      = errors.New("order does not belong to this purchase")
	ErrPurchaseInProgress = errors.New("purchase is already being verified")
	ErrMissingOrderID     = errors.New("orderID is required")
	ErrPaymentNotFound    = errors.New("payment not found")
)
