package application

import "github.com/saransh1220/coursehub/internal/modules/auth/domain"

// UpdateProfileRequest represents the request body for updating a user's profile
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
}

// PublicUserResponse represents a user's public profile information
type PublicUserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ProfileResponse is the owner's view, which adds the email
type ProfileResponse struct {
	PublicUserResponse
	Email string `json:"email"`
}

func newPublicUserResponse(u *domain.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
