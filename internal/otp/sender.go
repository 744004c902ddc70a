package otp

import (
	"context"

	"backend/internal/logger"
)

// Sender delivers a code to an email address. Delivery is an external
// collaborator; the dev sender just logs the code.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

type logSender struct{}

// NewLogSender returns a Sender for development environments.
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(_ context.Context, email, code string) error {
	logger.Info("otp issued", "email", email, "code", code)
	return nil
}
