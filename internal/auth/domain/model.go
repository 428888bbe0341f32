package domain

import "errors"

// User represents the authenticated developer account. It exists only while
// a session is active; logout removes it from the store.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	AuthToken string `json:"auth_token,omitempty"`
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid session token")
)
