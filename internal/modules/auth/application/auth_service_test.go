package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/auth/domain"
	"github.com/saransh1220/coursehub/internal/modules/auth/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *userRepoMock, admins ...string) *AuthService {
	svc := NewAuthService(repo, Options{
		JWTSecret:      "secret",
		JWTExpiry:      time.Hour,
		GoogleClientID: "client-id",
		AdminEmails:    admins,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func passwordUser(t *testing.T, email, password string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: uuid.New(), Email: email, PasswordHash: string(hash), Role: role}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and hashes", func(t *testing.T) {
		repo := new(userRepoMock)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

		user, err := newTestService(repo).Register(ctx, RegisterRequest{Email: " Ada@Example.com ", Password: "password123", Name: "  Ada "})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, fixedNow, user.CreatedAt)
		assert.True(t, user.HasPassword())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	})

	t.Run("listed email becomes admin", func(t *testing.T) {
		repo := new(userRepoMock)
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, err := newTestService(repo, "boss@example.com").Register(ctx, RegisterRequest{Email: "Boss@example.com", Password: "password123", Name: "Boss"})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(userRepoMock)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrUserAlreadyExists).Once()

		_, err := newTestService(repo).Register(ctx, RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "Dup"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{"missing email", RegisterRequest{Password: "password123", Name: "Ada"}, "email is required"},
		{"bad email", RegisterRequest{Email: "nope", Password: "password123", Name: "Ada"}, "email must be a valid email"},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short", Name: "Ada"}, "password must be at least 8"},
		{"blank name", RegisterRequest{Email: "a@example.com", Password: "password123", Name: "   "}, "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(userRepoMock)
			_, err := newTestService(repo).Register(context.Background(), tt.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.ErrorContains(t, err, tt.want)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	admin := passwordUser(t, "a@example.com", "password123", domain.RoleAdmin)
	googleOnly := &domain.User{ID: uuid.New(), Email: "g@example.com", Role: domain.RoleUser}

	tests := []struct {
		name     string
		email    string
		password string
		found    *domain.User
		repoErr  error
		wantErr  error
	}{
		{"unknown email", "missing@example.com", "password123", nil, domain.ErrUserNotFound, domain.ErrInvalidCredentials},
		{"wrong password", "a@example.com", "wrong-password", admin, nil, domain.ErrInvalidCredentials},
		{"google account", "g@example.com", "password123", googleOnly, nil, domain.ErrInvalidCredentials},
		{"store down", "a@example.com", "password123", nil, errors.New("db down"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(userRepoMock)
			repo.On("GetByEmail", ctx, tt.email).Return(tt.found, tt.repoErr).Once()

			_, err := newTestService(repo).Login(ctx, LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.EqualError(t, err, "db down")
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		repo := new(userRepoMock)
		repo.On("GetByEmail", ctx, "a@example.com").Return(admin, nil).Once()
		svc := newTestService(repo)

		session, err := svc.Login(ctx, LoginRequest{Email: "A@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, admin, session.User)
		assert.Equal(t, fixedNow.Add(time.Hour), session.ExpiresAt)

		claims, err := svc.ValidateToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := newTestService(new(userRepoMock)).Login(ctx, LoginRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(userRepoMock)
	repo.On("GetByID", ctx, id).Return(&domain.User{ID: id}, nil).Once()

	user, err := newTestService(repo).GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func googleReturns(claims map[string]interface{}, err error) GoogleVerifier {
	return func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
		if audience != "client-id" {
			return nil, errors.New("audience mismatch")
		}
		if err != nil {
			return nil, err
		}
		return &idtoken.Payload{Claims: claims}, nil
	}
}

func TestGoogleLogin_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		verifier GoogleVerifier
		want     error
	}{
		{"empty token", "", googleReturns(nil, nil), domain.ErrInvalidInput},
		{"bad token", "t", googleReturns(nil, errors.New("expired")), domain.ErrInvalidGoogleToken},
		{"no email", "t", googleReturns(map[string]interface{}{"name": "x"}, nil), domain.ErrInvalidGoogleToken},
		{"unverified email", "t", googleReturns(map[string]interface{}{"email": "x@example.com", "email_verified": false}, nil), domain.ErrInvalidGoogleToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(userRepoMock)
			svc := newTestService(repo)
			svc.verifyGoogle = tt.verifier

			_, err := svc.GoogleLogin(context.Background(), GoogleLoginRequest{Token: tt.token})
			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestGoogleLogin_CreatesAccountOnFirstSignIn(t *testing.T) {
	ctx := context.Background()
	repo := new(userRepoMock)
	svc := newTestService(repo, "new@example.com")
	svc.verifyGoogle = googleReturns(map[string]interface{}{
		"email": "New@Example.com", "email_verified": true, "picture": "https://lh3.googleusercontent.com/x.png",
	}, nil)

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrUserNotFound).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.Name == "new" && !u.HasPassword() && u.IsAdmin() &&
			u.AvatarURL != nil && *u.AvatarURL == "https://lh3.googleusercontent.com/x.png"
	})).Return(nil).Once()

	session, err := svc.GoogleLogin(ctx, GoogleLoginRequest{Token: "t"})
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(session.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	repo.AssertExpectations(t)
}

func TestGoogleLogin_ExistingAccount(t *testing.T) {
	ctx := context.Background()
	existing := &domain.User{ID: uuid.New(), Email: "old@example.com", Role: domain.RoleUser}

	repo := new(userRepoMock)
	repo.On("GetByEmail", ctx, "old@example.com").Return(existing, nil).Once()
	svc := newTestService(repo)
	svc.verifyGoogle = googleReturns(map[string]interface{}{"email": "old@example.com"}, nil)

	session, err := svc.GoogleLogin(ctx, GoogleLoginRequest{Token: "t"})
	require.NoError(t, err)
	assert.Same(t, existing, session.User)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	repo.On("GetByEmail", ctx, "old@example.com").Return(nil, errors.New("db down")).Once()
	_, err = svc.GoogleLogin(ctx, GoogleLoginRequest{Token: "t"})
	assert.EqualError(t, err, "db down")
}
