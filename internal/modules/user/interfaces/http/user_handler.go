package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	fsdomain "github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
	"github.com/saransh1220/coursehub/internal/modules/user/application"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

const maxAvatarRequest = 6 << 20

type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req application.UpdateProfileRequest) (*application.ProfileResponse, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*application.ProfileResponse, string, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*application.PublicUserResponse, error)
}

type FileService interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, policy fsdomain.AssetPolicy) (*fsdomain.StoredFile, error)
	DeleteByURL(ctx context.Context, fileURL string)
	GetKeyFromURL(fileURL string) (string, error)
	GetPresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

type UserHandler struct {
	service     UserService
	fileService FileService
}

func NewUserHandler(service UserService, fileService FileService) *UserHandler {
	return &UserHandler{
		service:     service,
		fileService: fileService,
	}
}

// UpdateProfile handles PATCH /users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req application.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeUserError(w, "UserHandler.UpdateProfile", err)
		return
	}
	h.presignAvatar(r.Context(), &profile.PublicUserResponse)
	utils.WriteJSON(w, http.StatusOK, profile)
}

// GetPublicProfile handles GET /users/{id}/public
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), userID)
	if err != nil {
		writeUserError(w, "UserHandler.GetPublicProfile", err)
		return
	}
	h.presignAvatar(r.Context(), profile)
	utils.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar handles POST /users/profile/avatar (multipart field "avatar").
// The previous avatar is removed once the new one is saved.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequest)
	if err := r.ParseMultipartForm(maxAvatarRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer file.Close()

	stored, err := h.fileService.Upload(r.Context(), file, header, fsdomain.AvatarPolicy)
	if err != nil {
		if errors.Is(err, fsdomain.ErrUnsupportedFile) || errors.Is(err, fsdomain.ErrFileTooLarge) {
			utils.WriteError(w, http.StatusBadRequest, "invalid avatar", err)
			return
		}
		log.Printf("[UserHandler.UploadAvatar] upload: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to upload avatar", nil)
		return
	}

	profile, previous, err := h.service.SetAvatar(r.Context(), userID, stored.URL)
	if err != nil {
		h.fileService.DeleteByURL(r.Context(), stored.URL)
		writeUserError(w, "UserHandler.UploadAvatar", err)
		return
	}
	if previous != "" && previous != stored.URL {
		h.fileService.DeleteByURL(r.Context(), previous)
	}

	h.presignAvatar(r.Context(), &profile.PublicUserResponse)
	utils.WriteJSON(w, http.StatusOK, profile)
}

// presignAvatar swaps a storage URL for a short-lived signed one; the stored
// URL is kept when signing is not possible.
func (h *UserHandler) presignAvatar(ctx context.Context, profile *application.PublicUserResponse) {
	if profile.AvatarURL == nil || *profile.AvatarURL == "" {
		return
	}
	key, err := h.fileService.GetKeyFromURL(*profile.AvatarURL)
	if err != nil {
		return
	}
	signed, err := h.fileService.GetPresignedURL(ctx, key, time.Hour)
	if err == nil && signed != "" {
		profile.AvatarURL = &signed
	}
}

func writeUserError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, authDomain.ErrUserNotFound):
		utils.WriteError(w, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrInvalidProfile):
		utils.WriteError(w, http.StatusBadRequest, "validation failed", err)
	default:
		log.Printf("[%s] %v", op, err)
		utils.WriteError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
