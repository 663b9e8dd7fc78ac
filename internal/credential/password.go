// Package credential hashes and verifies account passwords.
//
// Hashes are PBKDF2-HMAC-SHA512 with 1000 iterations and a 64-byte key,
// hex encoded. The salt is 16 random bytes, hex encoded, and the KDF is fed
// the salt's hex text. Stored values have the form "salt:hash".
package credential

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Iterations = 1000
	KeyLength  = 64
	SaltLength = 16

	separator = ":"
)

var ErrMalformedHash = errors.New("malformed password hash")

// Hashed is the output of Hash.
type Hashed struct {
	Hash string
	Salt string
}

// Encode returns the "salt:hash" form stored in users.password_hash.
func (h Hashed) Encode() string {
	return h.Salt + separator + h.Hash
}

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	buf := make([]byte, SaltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash derives the password hash. An empty salt is replaced by a fresh one.
func Hash(password, salt string) (Hashed, error) {
	if salt == "" {
		var err error
		if salt, err = NewSalt(); err != nil {
			return Hashed{}, err
		}
	}
	return Hashed{Hash: derive(password, salt), Salt: salt}, nil
}

// Verify recomputes the hash of password with salt and compares it to hash.
func Verify(password, hash, salt string) bool {
	computed := derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// Split breaks a stored "salt:hash" value into its parts.
func Split(stored string) (salt, hash string, err error) {
	salt, hash, ok := strings.Cut(stored, separator)
	if !ok || salt == "" || hash == "" {
		return "", "", ErrMalformedHash
	}
	return salt, hash, nil
}

// VerifyStored checks password against a stored "salt:hash" value.
func VerifyStored(password, stored string) (bool, error) {
	salt, hash, err := Split(stored)
	if err != nil {
		return false, err
	}
	return Verify(password, hash, salt), nil
}

func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), Iterations, KeyLength, sha512.New)
	return hex.EncodeToString(key)
}
