package service_test

import (
	"context"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/google"
	"backend/internal/model"
	"backend/internal/otp"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVerifier struct {
	payload *google.TokenPayload
	err     error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*google.TokenPayload, error) {
	return f.payload, f.err
}

// captureSender keeps the last issued code instead of delivering it.
type captureSender struct {
	code string
}

func (c *captureSender) Send(_ context.Context, _, code string) error {
	c.code = code
	return nil
}

func newAuthService(t *testing.T, db *gorm.DB, verifier google.Verifier, sender otp.Sender) service.AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		verifier,
		otp.NewStore(client),
		sender,
	)
}

func TestOtpLoginFlow(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{}
	svc := newAuthService(t, db, &fakeVerifier{}, sender)

	require.NoError(t, svc.SendOtp(testCtx(), "Alice@Example.com"))
	require.NotEmpty(t, sender.code)

	login, err := svc.VerifyOtp(testCtx(), service.VerifyOtpRequest{
		Email:    "alice@example.com",
		Code:     sender.code,
		DeviceID: "device-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.NotEmpty(t, login.RefreshToken)
	assert.False(t, login.IsRegistered)
	assert.Equal(t, "alice@example.com", login.User.Email)

	// code is consumed on first use
	_, err = svc.VerifyOtp(testCtx(), service.VerifyOtpRequest{
		Email:    "alice@example.com",
		Code:     sender.code,
		DeviceID: "device-1",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	authCtx, err := svc.Authenticate(testCtx(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", authCtx.User.Email)
	assert.False(t, authCtx.VipActive)
}

func TestGoogleLoginCreatesUserOnce(t *testing.T) {
	db := setupTestDB(t)
	verifier := &fakeVerifier{payload: &google.TokenPayload{
		Email: "bob@example.com",
		Sub:   "google-sub",
		Name:  "Bob",
	}}
	svc := newAuthService(t, db, verifier, &captureSender{})

	first, err := svc.GoogleLogin(testCtx(), service.GoogleLoginRequest{IDToken: "t", DeviceID: "d1"})
	require.NoError(t, err)
	second, err := svc.GoogleLogin(testCtx(), service.GoogleLoginRequest{IDToken: "t", DeviceID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// relogin on the same device replaces the session
	var sessions int64
	require.NoError(t, db.Model(&model.Session{}).Count(&sessions).Error)
	assert.EqualValues(t, 1, sessions)
}

func TestRefreshRotatesAndRejectsReuse(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{}
	svc := newAuthService(t, db, &fakeVerifier{}, sender)

	require.NoError(t, svc.SendOtp(testCtx(), "alice@example.com"))
	login, err := svc.VerifyOtp(testCtx(), service.VerifyOtpRequest{
		Email:    "alice@example.com",
		Code:     sender.code,
		DeviceID: "device-1",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(testCtx(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// the rotated-away token no longer matches the stored one
	_, err = svc.Refresh(testCtx(), login.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	// the fresh one still works
	_, err = svc.Refresh(testCtx(), rotated.RefreshToken)
	require.NoError(t, err)
}

func TestAuthenticateRevokesIdleSession(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{}
	svc := newAuthService(t, db, &fakeVerifier{}, sender)

	require.NoError(t, svc.SendOtp(testCtx(), "alice@example.com"))
	login, err := svc.VerifyOtp(testCtx(), service.VerifyOtpRequest{
		Email:    "alice@example.com",
		Code:     sender.code,
		DeviceID: "device-1",
	})
	require.NoError(t, err)

	stale := time.Now().Add(-31 * time.Minute)
	require.NoError(t, db.Model(&model.Session{}).
		Where("refresh_token = ?", login.RefreshToken).
		Update("last_active", stale).Error)

	_, err = svc.Authenticate(testCtx(), login.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	// the session is revoked for good, not just rejected once
	var session model.Session
	require.NoError(t, db.First(&session, "refresh_token = ?", login.RefreshToken).Error)
	assert.True(t, session.Revoked)
}

func TestLogoutRevokesSession(t *testing.T) {
	db := setupTestDB(t)
	sender := &captureSender{}
	svc := newAuthService(t, db, &fakeVerifier{}, sender)

	require.NoError(t, svc.SendOtp(testCtx(), "alice@example.com"))
	login, err := svc.VerifyOtp(testCtx(), service.VerifyOtpRequest{
		Email:    "alice@example.com",
		Code:     sender.code,
		DeviceID: "device-1",
	})
	require.NoError(t, err)

	authCtx, err := svc.Authenticate(testCtx(), login.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(testCtx(), authCtx.Session))

	_, err = svc.Authenticate(testCtx(), login.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}
