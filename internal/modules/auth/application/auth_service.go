package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/auth/domain"
	"github.com/saransh1220/coursehub/internal/modules/auth/infrastructure/jwt"
	"github.com/saransh1220/coursehub/internal/shared/utils"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// Session is what a successful sign in returns
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// GoogleVerifier checks a Google ID token against an audience
type GoogleVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type Options struct {
	JWTSecret      string
	JWTExpiry      time.Duration
	GoogleClientID string
	// AdminEmails get the admin role when their account is created
	AdminEmails []string
}

type AuthService struct {
	repo         domain.UserRepository
	opts         Options
	verifyGoogle GoogleVerifier
	now          func() time.Time
}

func NewAuthService(repo domain.UserRepository, opts Options) *AuthService {
	return &AuthService{
		repo:         repo,
		opts:         opts,
		verifyGoogle: idtoken.Validate,
		now:          time.Now,
	}
}

// Register creates a password account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := s.newUser(req.Name, req.Email)
	user.PasswordHash = string(hash)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks a password. Unknown emails and Google-only accounts fail the
// same way as a wrong password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// GoogleLogin exchanges a Google ID token for a session, creating the account
// on first sign in.
func (s *AuthService) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	payload, err := s.verifyGoogle(ctx, req.Token, s.opts.GoogleClientID)
	if err != nil {
		log.Printf("[AuthService.GoogleLogin] token validation failed: %v", err)
		return nil, domain.ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	email = normalizeEmail(email)
	if verified, ok := payload.Claims["email_verified"].(bool); email == "" || (ok && !verified) {
		return nil, fmt.Errorf("%w: email missing or unverified", domain.ErrInvalidGoogleToken)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.createGoogleUser(ctx, email, payload.Claims)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) createGoogleUser(ctx context.Context, email string, claims map[string]interface{}) (*domain.User, error) {
	name, _ := claims["name"].(string)
	if name = strings.TrimSpace(name); name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user := s.newUser(name, email)
	if picture, _ := claims["picture"].(string); picture != "" {
		user.AvatarURL = &picture
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[AuthService.GoogleLogin] created account %s", user.ID)
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthService) ValidateToken(tokenStr string) (*jwt.Claims, error) {
	return jwt.ValidateToken(tokenStr, s.opts.JWTSecret)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, err := jwt.GenerateToken(s.opts.JWTSecret, s.opts.JWTExpiry, user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: s.now().Add(s.opts.JWTExpiry).UTC(), User: user}, nil
}

func (s *AuthService) newUser(name, email string) *domain.User {
	now := s.now().UTC()
	role := domain.RoleUser
	if slices.Contains(s.opts.AdminEmails, email) {
		role = domain.RoleAdmin
	}
	return &domain.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
