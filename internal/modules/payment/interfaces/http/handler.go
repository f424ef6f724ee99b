package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/payment/application"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

type PaymentHandler struct {
	service application.PurchaseService
}

func NewPaymentHandler(service application.PurchaseService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Checkout handles POST /courses/{id}/checkout
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := identity(w, r)
	if !ok {
		return
	}

	res, err := h.service.StartPurchase(r.Context(), userID, courseID)
	if err != nil {
		writePaymentError(w, "PaymentHandler.Checkout", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, CheckoutResponse{OrderID: res.OrderID, Course: res.Course})
}

// Verify handles POST /courses/{id}/verify
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := identity(w, r)
	if !ok {
		return
	}

	var req VerifyPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	out, err := h.service.VerifyPurchase(r.Context(), userID, courseID, req.OrderID)
	if err != nil {
		writePaymentError(w, "PaymentHandler.Verify", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, VerifyPurchaseResponse{
		Message:          "Course Purchased Successfully",
		Status:           out.Status,
		AlreadyProcessed: out.AlreadyProcessed,
		Payment:          out.Payment,
	})
}

// ListPayments handles GET /payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userID)
	if err != nil {
		writePaymentError(w, "PaymentHandler.ListPayments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, PaymentListResponse{Payments: payments})
}

func identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid course id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, courseID, true
}

func writePaymentError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalogDomain.ErrCourseNotFound):
		utils.WriteError(w, http.StatusNotFound, "Course not found", nil)
	case errors.Is(err, authDomain.ErrUserNotFound):
		utils.WriteError(w, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, domain.ErrMissingOrderID):
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrPaymentFailed):
		utils.WriteError(w, http.StatusBadRequest, "Payment Failed", nil)
	case errors.Is(err, domain.ErrAlreadyOwned):
		utils.WriteError(w, http.StatusConflict, "You already have this course", nil)
	case errors.Is(err, domain.ErrPurchaseInProgress),
		errors.Is(err, domain.ErrOrderMismatch):
		utils.WriteError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrPaymentGateway):
		log.Printf("[%s] %v", op, err)
		utils.WriteError(w, http.StatusBadGateway, "payment error", err)
	default:
		log.Printf("[%s] %v", op, err)
		utils.WriteError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
