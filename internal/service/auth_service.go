package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend/internal/apperr"
	"backend/internal/google"
	"backend/internal/logger"
	"backend/internal/model"
	"backend/internal/otp"
	"backend/internal/repository"
	"backend/internal/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// A session idle longer than this is revoked on the next request.
	inactivityLimit = 30 * time.Minute

	// Small buffer so VIP does not flap at the exact expiry instant.
	vipSafetyMargin = 2 * time.Second
)

// DTOs for Request validation
type GoogleLoginRequest struct {
	IDToken  string `json:"idToken" binding:"required"`
	DeviceID string `json:"deviceId" binding:"required"`
}

type SendOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOtpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=4"`
	DeviceID string `json:"deviceId" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Role   string    `json:"role"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	IsRegistered bool        `json:"isRegistered"`
	User         UserSummary `json:"user"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthContext is the sanitized user+session context attached downstream
// after a successful authentication.
type AuthContext struct {
	User      *model.User
	Session   *model.Session
	VipActive bool
}

// AuthService implements the identity and session store: external identity
// verification, OTP login, the rotating token pair and session lifecycle.
type AuthService interface {
	GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*LoginResponse, error)
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, req VerifyOtpRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*AuthContext, error)
	Logout(ctx context.Context, session *model.Session) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	verifier google.Verifier
	otpStore *otp.Store
	otpSend  otp.Sender
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	verifier google.Verifier,
	otpStore *otp.Store,
	otpSend otp.Sender,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		otpStore: otpStore,
		otpSend:  otpSend,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*LoginResponse, error) {
	payload, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(payload.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Email:        email,
			GoogleID:     payload.Sub,
			Name:         payload.Name,
			Avatar:       payload.Picture,
			Role:         "user",
			AuthProvider: "google",
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.login(ctx, user, req.DeviceID)
}

func (s *authService) SendOtp(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("email required")
	}

	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return err
	}
	return s.otpSend.Send(ctx, email, code)
}

func (s *authService) VerifyOtp(ctx context.Context, req VerifyOtpRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)

	if err := s.otpStore.Verify(ctx, email, req.Code); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Email:        email,
			Role:         "user",
			AuthProvider: "email",
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.login(ctx, user, req.DeviceID)
}

// login replaces the device session and issues a fresh token pair.
func (s *authService) login(ctx context.Context, user *model.User, deviceID string) (*LoginResponse, error) {
	session, err := s.createSession(ctx, user.ID, deviceID)
	if err != nil {
		return nil, err
	}

	accessToken, err := token.SignAccess(user.ID, session.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := token.SignRefresh(user.ID, session.ID)
	if err != nil {
		return nil, err
	}

	session.RefreshToken = refreshToken
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("session created", "user_id", user.ID, "device_id", deviceID)

	return &LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		IsRegistered: user.IsRegistered,
		User: UserSummary{
			ID:     user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Avatar: user.Avatar,
			Role:   user.Role,
		},
	}, nil
}

// createSession deletes any existing session for the (user, device) pair and
// creates a fresh one with a placeholder refresh token; the caller must
// populate the real token immediately.
func (s *authService) createSession(ctx context.Context, userID uuid.UUID, deviceID string) (*model.Session, error) {
	if err := s.sessions.DeleteByUserAndDevice(ctx, userID, deviceID); err != nil {
		return nil, err
	}

	session := &model.Session{
		UserID:       userID,
		DeviceID:     deviceID,
		RefreshToken: "temp",
		LastActive:   time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := token.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Auth("invalid refresh token")
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil || session.Revoked || session.RefreshToken != refreshToken {
		// a stored-token mismatch also catches tokens rotated away earlier
		return nil, apperr.Auth("session expired")
	}

	newAccess, err := token.SignAccess(claims.UserID, session.ID)
	if err != nil {
		return nil, err
	}
	newRefresh, err := token.SignRefresh(claims.UserID, session.ID)
	if err != nil {
		return nil, err
	}

	session.RefreshToken = newRefresh
	session.LastActive = time.Now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return &RefreshResponse{Token: newAccess, RefreshToken: newRefresh}, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*AuthContext, error) {
	claims, err := token.ParseAccess(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, apperr.Auth("token expired")
		}
		return nil, apperr.Auth("invalid token")
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil || session.Revoked {
		return nil, apperr.Auth("session expired")
	}

	if time.Since(session.LastActive) > inactivityLimit {
		session.Revoked = true
		if err := s.sessions.Update(ctx, session); err != nil {
			logger.Error("failed to revoke idle session", "session_id", session.ID, "err", err)
		}
		return nil, apperr.Auth("logged out due to inactivity")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Auth("user not found")
	}

	vipActive := user.IsVip &&
		user.VipExpiresAt != nil &&
		time.Until(*user.VipExpiresAt) > vipSafetyMargin

	session.LastActive = time.Now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return &AuthContext{User: user, Session: session, VipActive: vipActive}, nil
}

func (s *authService) Logout(ctx context.Context, session *model.Session) error {
	session.Revoked = true
	return s.sessions.Update(ctx, session)
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllForUser(ctx, userID)
}
