package oauth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL bounds how long a user may take on the provider's consent page.
const StateTTL = 10 * time.Minute

// ErrInvalidState is returned when a state parameter fails verification.
var ErrInvalidState = errors.New("invalid oauth state")

// StateSigner issues and checks the state parameter of the authorize
// round trip as an HS256 JWT whose subject is the provider name.
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateSigner creates a signer. An empty secret generates a random key,
// which only works while a single instance serves both legs of the flow.
func NewStateSigner(secret string) (*StateSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate state key: %w", err)
		}
	}
	return &StateSigner{key: key, ttl: StateTTL, now: time.Now}, nil
}

func (s *StateSigner) Sign(provider string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   provider,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return token, nil
}

// Verify checks signature, expiry and that the state was issued for provider.
func (s *StateSigner) Verify(state, provider string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.Subject != provider {
		return fmt.Errorf("%w: issued for %q", ErrInvalidState, claims.Subject)
	}
	return nil
}
