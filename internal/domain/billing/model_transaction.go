package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusRefunded  TransactionStatus = "REFUNDED"
)

const DefaultCurrency = "COP"

// Transaction is a payment intent/attempt. Rows are never deleted; refunds are
// stored as negative-amount COMPLETED transactions linked to the original
// through their metadata context.
type Transaction struct {
	ID               string            `gorm:"primaryKey;size:44" json:"id"`
	UserID           uint              `gorm:"index" json:"user_id"`
	Amount           decimal.Decimal   `gorm:"type:numeric(14,2)" json:"amount"`
	Currency         string            `gorm:"size:3" json:"currency"`
	Description      string            `json:"description"`
	Status           TransactionStatus `gorm:"size:12;index" json:"status"`
	GatewayID        *uint             `json:"gateway_id,omitempty"`
	MethodID         *uint             `json:"method_id,omitempty"`
	GatewayReference string            `gorm:"index" json:"gateway_reference"`
	GatewayResponse  datatypes.JSON    `json:"gateway_response,omitempty"`
	Metadata         datatypes.JSON    `json:"metadata,omitempty"`
	ExpiresAt        *time.Time        `json:"expires_at,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	Attempts         int               `json:"attempts"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func NewTransactionID() string {
	return "txn_" + uuid.NewString()
}
