package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event is the payload published when a payment changes state.
type Event struct {
	Type          string    `json:"type"` // payment.completed, payment.refunded
	Schema        string    `json:"schema"`
	TransactionID string    `json:"transaction_id"`
	UserID        uint      `json:"user_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Sender is the notification-delivery capability. Downstream providers
// (push/SMS/email gateways) consume these events; delivery itself is out of
// scope here.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// LogSender just logs the event. Default when no broker is configured.
type LogSender struct {
	Log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{Log: log}
}

func (s *LogSender) Send(ctx context.Context, ev Event) error {
	s.Log.Info("notification event",
		zap.String("type", ev.Type),
		zap.String("transaction_id", ev.TransactionID),
		zap.Uint("user_id", ev.UserID),
		zap.String("amount", ev.Amount),
	)
	return nil
}
