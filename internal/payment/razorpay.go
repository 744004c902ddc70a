// Package payment wraps the Razorpay order API and the HMAC signature
// checks. Entitlement is never granted here; only the webhook path does that.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"backend/internal/apperr"
)

// Order is the provider-side order handle returned to the client.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// Client creates provider orders.
type Client interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string) (*Order, error)
}

type restClient struct {
	http      *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

// NewClient builds the REST client using basic auth with the key pair.
func NewClient(keyID, keySecret string) Client {
	return &restClient{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   "https://api.razorpay.com/v1",
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (c *restClient) CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string) (*Order, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
		"notes":    notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "failed to create order", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "failed to create order", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Wrap(apperr.KindExternal, "failed to create order",
			fmt.Errorf("razorpay returned %d", resp.StatusCode))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "failed to create order", err)
	}
	return &order, nil
}

// VerifyPaymentSignature checks the client-submitted checkout signature:
// HMAC-SHA256 over "orderId|paymentId" with the key secret.
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	payload := orderID + "|" + paymentID
	return verifyHMAC([]byte(payload), signature, keySecret)
}

// VerifyWebhookSignature checks the webhook signature over the raw request
// body with the separate webhook secret. Must run before JSON parsing.
func VerifyWebhookSignature(rawBody []byte, signature, webhookSecret string) bool {
	return verifyHMAC(rawBody, signature, webhookSecret)
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
