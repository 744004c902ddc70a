package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/payment"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testKeyID         = "rzp_test_key"
	testKeySecret     = "key-secret"
	testWebhookSecret = "webhook-secret"
)

type fakeOrderClient struct {
	lastNotes map[string]string
}

func (f *fakeOrderClient) CreateOrder(_ context.Context, amountPaise int64, receipt string, notes map[string]string) (*payment.Order, error) {
	f.lastNotes = notes
	return &payment.Order{
		ID:       "order_123",
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
		Status:   "created",
		Notes:    notes,
	}, nil
}

func newPaymentService(db *gorm.DB, client payment.Client, now func() time.Time) service.PaymentService {
	return service.NewPaymentService(
		repository.NewUserRepository(db),
		client,
		testKeyID, testKeySecret, testWebhookSecret,
		now,
	)
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedPaymentBody(userID uuid.UUID, plan string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_123","notes":{"userId":%q,"plan":%q}}}}}`,
		userID, plan,
	))
}

func TestCreateVipOrderCarriesUserAndPlan(t *testing.T) {
	db := setupTestDB(t)
	client := &fakeOrderClient{}
	svc := newPaymentService(db, client, nil)
	alice := createTestUser(t, db, "alice@example.com")

	order, err := svc.CreateVipOrder(testCtx(), alice.ID, service.CreateVipOrderRequest{Plan: service.PlanMonthly})
	require.NoError(t, err)
	assert.EqualValues(t, 9900, order.Amount) // 99 INR in paise
	assert.Equal(t, testKeyID, order.KeyID)
	assert.Equal(t, alice.ID.String(), client.lastNotes["userId"])
	assert.Equal(t, service.PlanMonthly, client.lastNotes["plan"])
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db, &fakeOrderClient{}, nil)
	alice := createTestUser(t, db, "alice@example.com")

	body := capturedPaymentBody(alice.ID, service.PlanMonthly)
	err := svc.HandleWebhook(testCtx(), body, "deadbeef")
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.False(t, user.IsVip)
}

func TestWebhookGrantsAndStacksVip(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newPaymentService(db, &fakeOrderClient{}, func() time.Time { return now })
	alice := createTestUser(t, db, "alice@example.com")

	body := capturedPaymentBody(alice.ID, service.PlanMonthly)
	require.NoError(t, svc.HandleWebhook(testCtx(), body, signWebhook(body)))

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	require.True(t, user.IsVip)
	require.NotNil(t, user.VipExpiresAt)
	assert.WithinDuration(t, now.AddDate(0, 1, 0), *user.VipExpiresAt, time.Second)

	// a second purchase while active stacks on the current expiry
	require.NoError(t, svc.HandleWebhook(testCtx(), body, signWebhook(body)))
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.WithinDuration(t, now.AddDate(0, 2, 0), *user.VipExpiresAt, time.Second)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db, &fakeOrderClient{}, nil)
	alice := createTestUser(t, db, "alice@example.com")

	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","notes":{"userId":%q,"plan":"monthly"}}}}}`,
		alice.ID,
	))
	require.NoError(t, svc.HandleWebhook(testCtx(), body, signWebhook(body)))

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.False(t, user.IsVip)
}

func TestVerifyPaymentSignature(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db, &fakeOrderClient{}, nil)

	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte("order_123|pay_1"))
	good := hex.EncodeToString(mac.Sum(nil))

	require.NoError(t, svc.VerifyPayment(testCtx(), service.VerifyPaymentRequest{
		OrderID: "order_123", PaymentID: "pay_1", Signature: good,
	}))

	err := svc.VerifyPayment(testCtx(), service.VerifyPaymentRequest{
		OrderID: "order_123", PaymentID: "pay_1", Signature: "bad",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}
