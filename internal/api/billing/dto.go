package billing

import (
	"encoding/json"
	"time"

	domain "armonia-backend/internal/domain/billing"

	"github.com/shopspring/decimal"
)

type createPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Description string          `json:"description" binding:"required"`
	MethodID    *uint           `json:"method_id"`
	ReturnURL   string          `json:"return_url"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

type confirmPaymentRequest struct {
	GatewayReference string                   `json:"gateway_reference" binding:"required"`
	GatewayResponse  json.RawMessage          `json:"gateway_response"`
	Status           domain.TransactionStatus `json:"status" binding:"required"`
}

type refundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

type reservationPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	ReturnURL   string          `json:"return_url"`
}
