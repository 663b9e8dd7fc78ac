// Package session maps opaque login tokens to user snapshots.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"short-link/internal/entities"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

// TokenBytes is the amount of randomness in a token (256 bits).
const TokenBytes = 32

// ErrNotFound is returned by Authenticate for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store holds authenticated sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	// Create mints a new token for user and stores a snapshot of it.
	Create(ctx context.Context, user *entities.User) (string, error)
	// Authenticate returns the snapshot stored for token or ErrNotFound.
	Authenticate(ctx context.Context, token string) (*entities.User, error)
	// Destroy removes token. Unknown tokens are not an error.
	Destroy(ctx context.Context, token string) error
}

// NewToken returns a hex-encoded random token.
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// snapshot copies user without the password hash. Pointer fields are
// copied too so the stored value shares no memory with the caller.
func snapshot(user *entities.User) *entities.User {
	cp := *user
	cp.PasswordHash = nil
	if user.Email != nil {
		email := *user.Email
		cp.Email = &email
	}
	if user.LastLogin != nil {
		lastLogin := *user.LastLogin
		cp.LastLogin = &lastLogin
	}
	return &cp
}
