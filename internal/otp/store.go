// Package otp implements the one-time-passcode store on Redis. One active
// code per email address, 60 second expiry, consumed on successful verify.
// Codes are bcrypt-hashed at rest so a Redis dump leaks nothing usable.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/apperr"
)

const (
	CodeTTL    = 60 * time.Second
	codeDigits = 4
)

// Store issues and verifies short-lived numeric codes.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(email string) string {
	return "otp:" + email
}

// Issue generates a fresh 4-digit code for the address, replacing any code
// still active, and returns the plaintext for delivery.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, key(email), string(hash), CodeTTL).Err(); err != nil {
		return "", apperr.Wrap(apperr.KindExternal, "otp store unavailable", err)
	}
	return code, nil
}

// Verify checks the code for the address and consumes it on success.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return apperr.Auth("otp expired or not requested")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindExternal, "otp store unavailable", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(code)) != nil {
		return apperr.Auth("invalid otp")
	}

	// consume: a code verifies at most once
	if err := s.client.Del(ctx, key(email)).Err(); err != nil {
		return apperr.Wrap(apperr.KindExternal, "otp store unavailable", err)
	}
	return nil
}

func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
