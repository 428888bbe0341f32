package service

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/playautopublish/console-backend/internal/auth/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

// AuthService performs the simulated Google OAuth exchange. The shape
// matches a real code exchange — a user record plus an oauth2 bearer token —
// but the provider is faked: Login always yields the same developer
// account with a fresh token.
type AuthService struct {
	store *state.Store
}

func NewAuthService(store *state.Store) *AuthService {
	return &AuthService{store: store}
}

// Login runs the simulated exchange and installs the session user in the
// store.
func (s *AuthService) Login() (*domain.User, *oauth2.Token, error) {
	token := &oauth2.Token{
		AccessToken: "mock_" + uuid.New().String(),
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(24 * time.Hour),
	}

	user := &domain.User{
		ID:        "1",
		Name:      "John Developer",
		Email:     "john@example.com",
		AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=john",
		AuthToken: token.AccessToken,
	}

	s.store.SetUser(user)
	return user, token, nil
}

// Logout clears the session.
func (s *AuthService) Logout() {
	s.store.SetUser(nil)
}

// CurrentUser returns the session user.
func (s *AuthService) CurrentUser() (*domain.User, error) {
	user := s.store.User()
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// ValidateToken resolves a bearer token to the session user.
func (s *AuthService) ValidateToken(token string) (*domain.User, error) {
	user := s.store.User()
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if token == "" || token != user.AuthToken {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}
