package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	"github.com/saransh1220/coursehub/internal/modules/auth/application"
	"github.com/saransh1220/coursehub/internal/modules/auth/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

const avatarLinkTTL = time.Hour

type AuthService interface {
	Register(ctx context.Context, req application.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req application.LoginRequest) (*application.Session, error)
	GoogleLogin(ctx context.Context, req application.GoogleLoginRequest) (*application.Session, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// FileService signs links to avatars kept in our own storage
type FileService interface {
	GetKeyFromURL(fileURL string) (string, error)
	GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type AuthHandler struct {
	service     AuthService
	fileService FileService
}

func NewAuthHandler(service AuthService, fileService FileService) *AuthHandler {
	return &AuthHandler{service: service, fileService: fileService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeAuthError(w, "Register", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, h.withAvatarLink(r.Context(), user))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeAuthError(w, "Login", err)
		return
	}
	session.User = h.withAvatarLink(r.Context(), session.User)
	utils.WriteJSON(w, http.StatusOK, session)
}

// GoogleLogin handles POST /auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.service.GoogleLogin(r.Context(), req)
	if err != nil {
		writeAuthError(w, "GoogleLogin", err)
		return
	}
	session.User = h.withAvatarLink(r.Context(), session.User)
	utils.WriteJSON(w, http.StatusOK, session)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeAuthError(w, "Me", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.withAvatarLink(r.Context(), user))
}

// withAvatarLink swaps a stored avatar for a short lived signed link. Avatars
// hosted by Google are returned as is. The stored user is not modified.
func (h *AuthHandler) withAvatarLink(ctx context.Context, user *domain.User) *domain.User {
	if user == nil || user.AvatarURL == nil || *user.AvatarURL == "" || h.fileService == nil || isExternalURL(*user.AvatarURL) {
		return user
	}
	key, err := h.fileService.GetKeyFromURL(*user.AvatarURL)
	if err != nil {
		return user
	}
	signed, err := h.fileService.GetPresignedURL(ctx, key, avatarLinkTTL)
	if err != nil {
		log.Printf("[AuthHandler] presign avatar for %s: %v", user.ID, err)
		return user
	}
	out := *user
	out.AvatarURL = &signed
	return &out
}

func writeAuthError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		utils.WriteError(w, http.StatusConflict, "user already exists", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		utils.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, domain.ErrInvalidGoogleToken):
		utils.WriteError(w, http.StatusUnauthorized, "invalid google token", nil)
	case errors.Is(err, domain.ErrUserNotFound):
		utils.WriteError(w, http.StatusNotFound, "user not found", nil)
	default:
		log.Printf("[AuthHandler.%s] %v", op, err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

// isExternalURL reports whether the avatar is hosted by an identity provider
func isExternalURL(u string) bool {
	return strings.Contains(u, "googleusercontent.com")
}
