// Package token issues and verifies the access/refresh JWT pair. Access
// tokens are minutes-scale, refresh tokens days-scale, signed with separate
// HMAC secrets.
package token

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims binds a token to both the user and the device session.
type Claims struct {
	UserID    uuid.UUID `json:"userId"`
	SessionID uuid.UUID `json:"sessionId"`
	jwt.RegisteredClaims
}

// AccessSecret returns the HMAC key for access tokens.
func AccessSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// RefreshSecret returns the HMAC key for refresh tokens.
func RefreshSecret() []byte {
	secret := os.Getenv("JWT_REFRESH_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_REFRESH_SECRET environment variable is required in production mode")
		}
		secret = "default_refresh_secret_key"
	}
	return []byte(secret)
}

// SignAccess issues a short-lived access token for the user/session pair.
func SignAccess(userID, sessionID uuid.UUID) (string, error) {
	return sign(userID, sessionID, AccessTokenTTL, AccessSecret())
}

// SignRefresh issues a long-lived refresh token for the user/session pair.
func SignRefresh(userID, sessionID uuid.UUID) (string, error) {
	return sign(userID, sessionID, RefreshTokenTTL, RefreshSecret())
}

func sign(userID, sessionID uuid.UUID, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token and returns its claims.
func ParseAccess(tokenString string) (*Claims, error) {
	return parse(tokenString, AccessSecret())
}

// ParseRefresh verifies a refresh token and returns its claims.
func ParseRefresh(tokenString string) (*Claims, error) {
	return parse(tokenString, RefreshSecret())
}

func parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
