package http

import (
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

type VerifyPurchaseRequest struct {
	OrderID string `json:"orderID" validate:"required"`
}

type CheckoutResponse struct {
	OrderID string                `json:"orderID"`
	Course  *catalogDomain.Course `json:"course"`
}

type VerifyPurchaseResponse struct {
	Message          string          `json:"message"`
	Status           string          `json:"status"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
	Payment          *domain.Payment `json:"payment,omitempty"`
}

type PaymentListResponse struct {
	Payments []domain.Payment `json:"payments"`
}
