package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"backend/internal/apperr"
	"backend/internal/logger"
	"backend/internal/payment"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan identifiers and prices in INR. Amounts are converted to paise when
// creating provider orders.
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

var planPriceINR = map[string]decimal.Decimal{
	PlanMonthly: decimal.NewFromInt(99),
	PlanAnnual:  decimal.NewFromInt(599),
}

type CreateVipOrderRequest struct {
	Plan string `json:"plan" binding:"required,oneof=monthly annual"`
}

type VipOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	Plan     string `json:"plan"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpayOrderId" binding:"required"`
	PaymentID string `json:"razorpayPaymentId" binding:"required"`
	Signature string `json:"razorpaySignature" binding:"required"`
}

type PlanInfo struct {
	Plan     string `json:"plan"`
	PriceINR string `json:"priceInr"`
	Amount   int64  `json:"amount"` // paise
}

// PaymentService creates VIP orders and processes provider callbacks. The
// checkout verification endpoint only confirms the signature for client UX;
// entitlement is granted exclusively from the captured-payment webhook.
type PaymentService interface {
	Plans() []PlanInfo
	CreateVipOrder(ctx context.Context, userID uuid.UUID, req CreateVipOrderRequest) (*VipOrderResponse, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
}

type paymentService struct {
	users         repository.UserRepository
	client        payment.Client
	keyID         string
	keySecret     string
	webhookSecret string
	now           func() time.Time
}

// NewPaymentService returns a new instance of PaymentService.
// now may be nil, in which case time.Now is used.
func NewPaymentService(
	users repository.UserRepository,
	client payment.Client,
	keyID, keySecret, webhookSecret string,
	now func() time.Time,
) PaymentService {
	if now == nil {
		now = time.Now
	}
	return &paymentService{
		users:         users,
		client:        client,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		now:           now,
	}
}

func (s *paymentService) Plans() []PlanInfo {
	plans := make([]PlanInfo, 0, len(planPriceINR))
	for _, name := range []string{PlanMonthly, PlanAnnual} {
		price := planPriceINR[name]
		plans = append(plans, PlanInfo{
			Plan:     name,
			PriceINR: price.StringFixed(2),
			Amount:   amountPaise(price),
		})
	}
	return plans
}

func (s *paymentService) CreateVipOrder(ctx context.Context, userID uuid.UUID, req CreateVipOrderRequest) (*VipOrderResponse, error) {
	price, ok := planPriceINR[req.Plan]
	if !ok {
		return nil, apperr.Validation("unknown plan")
	}

	receipt, err := vipReceipt()
	if err != nil {
		return nil, err
	}
	order, err := s.client.CreateOrder(ctx, amountPaise(price), receipt, map[string]string{
		"userId": userID.String(),
		"plan":   req.Plan,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("vip order created", "order_id", order.ID, "user_id", userID, "plan", req.Plan)
	return &VipOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
		Plan:     req.Plan,
	}, nil
}

// VerifyPayment confirms the checkout signature so the client can show a
// success screen immediately. It never grants VIP.
func (s *paymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error {
	if !payment.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		return apperr.Auth("invalid payment signature")
	}
	return nil
}

// webhookEnvelope mirrors the shape of a Razorpay webhook delivery; only the
// fields read here are declared.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *paymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !payment.VerifyWebhookSignature(rawBody, signature, s.webhookSecret) {
		return apperr.Auth("invalid webhook signature")
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return apperr.Wrap(apperr.KindValidation, "malformed webhook payload", err)
	}
	if envelope.Event != "payment.captured" {
		logger.Debug("ignoring webhook event", "event", envelope.Event)
		return nil
	}

	entity := envelope.Payload.Payment.Entity
	userID, err := uuid.Parse(entity.Notes["userId"])
	if err != nil {
		return apperr.Validation("webhook payment has no user reference")
	}
	plan := entity.Notes["plan"]
	if plan != PlanMonthly && plan != PlanAnnual {
		return apperr.Validation("webhook payment has no plan reference")
	}

	return s.grantVip(ctx, userID, plan, entity.ID)
}

// grantVip extends the entitlement. A purchase while VIP is still active
// stacks on top of the current expiry rather than replacing it.
func (s *paymentService) grantVip(ctx context.Context, userID uuid.UUID, plan, paymentID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return err
	}

	now := s.now()
	base := now
	if user.IsVip && user.VipExpiresAt != nil && user.VipExpiresAt.After(now) {
		base = *user.VipExpiresAt
	}

	var expiresAt time.Time
	switch plan {
	case PlanMonthly:
		expiresAt = base.AddDate(0, 1, 0)
	case PlanAnnual:
		expiresAt = base.AddDate(1, 0, 0)
	}

	if err := s.users.GrantVip(ctx, userID, plan, now, expiresAt); err != nil {
		return err
	}
	logger.Info("vip granted",
		"user_id", userID,
		"plan", plan,
		"payment_id", paymentID,
		"expires_at", expiresAt,
	)
	return nil
}

func amountPaise(priceINR decimal.Decimal) int64 {
	return priceINR.Mul(decimal.NewFromInt(100)).IntPart()
}

// vipReceipt builds the provider receipt string, e.g. vip_3fa85f64a1b2.
func vipReceipt() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to create receipt", err)
	}
	return "vip_" + hex.EncodeToString(buf), nil
}
