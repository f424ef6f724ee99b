package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	authDomain "github.com/saransh1220/coursehub/internal/modules/auth/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

var ErrInvalidProfile = errors.New("invalid profile")

// ProfileRepository is the slice of the user store profiles need
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, avatarURL *string) (*authDomain.User, error)
}

type UserService struct {
	repo ProfileRepository
}

func NewUserService(repo ProfileRepository) *UserService {
	return &UserService{repo: repo}
}

// UpdateProfile updates a user's profile information
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{PublicUserResponse: newPublicUserResponse(user), Email: user.Email}, nil
}

// SetAvatar stores a new avatar URL and returns the one it replaced, if any
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*ProfileResponse, string, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.UpdateProfile(ctx, userID, nil, &avatarURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to save avatar: %w", err)
	}

	previous := ""
	if current.AvatarURL != nil {
		previous = *current.AvatarURL
	}
	return &ProfileResponse{PublicUserResponse: newPublicUserResponse(user), Email: user.Email}, previous, nil
}

// GetPublicProfile retrieves a user's public profile information
func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicUserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := newPublicUserResponse(user)
	return &resp, nil
}
