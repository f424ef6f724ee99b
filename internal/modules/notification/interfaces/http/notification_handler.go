package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/saransh1220/coursehub/internal/modules/notification/infrastructure/websocket"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type NotificationListResponse struct {
	Data []domain.Notification `json:"data"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

// NotificationService is what the handler needs from the application layer
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationHandler struct {
	service NotificationService
	hub     *websocket.Hub
}

func NewNotificationHandler(service NotificationService, hub *websocket.Hub) *NotificationHandler {
	return &NotificationHandler{service: service, hub: hub}
}

// Subscribe handles GET /ws
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	websocket.ServeWs(h.hub, w, r, userID)
}

// ListNotifications handles GET /notifications?limit=&offset=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	limit, offset := pageParams(r)
	notifications, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[NotificationHandler.ListNotifications] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch notifications", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, NotificationListResponse{Data: notifications})
}

// MarkAsRead handles PATCH /notifications/{id}/read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			utils.WriteError(w, http.StatusNotFound, "notification not found", nil)
			return
		}
		log.Printf("[NotificationHandler.MarkAsRead] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark notification as read", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllAsRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("[NotificationHandler.MarkAllAsRead] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark all notifications as read", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("[NotificationHandler.UnreadCount] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to get unread count", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, UnreadCountResponse{Count: count})
}

// pageParams falls back to the defaults on anything unparsable
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
