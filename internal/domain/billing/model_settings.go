package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSettings is a singleton row per tenant schema, lazily created with
// defaults on first access.
type PaymentSettings struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	AllowSaveCards      bool            `json:"allow_save_cards"`
	MinPaymentAmount    decimal.Decimal `gorm:"type:numeric(14,2)" json:"min_payment_amount"`
	PaymentExpiry       int             `json:"payment_expiry"` // hours
	DefaultGatewayID    *uint           `json:"default_gateway_id,omitempty"`
	AutoGenerateReceipt bool            `json:"auto_generate_receipt"`
	NotifyOnPayment     bool            `json:"notify_on_payment"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func DefaultSettings() PaymentSettings {
	return PaymentSettings{
		AllowSaveCards:      true,
		MinPaymentAmount:    decimal.NewFromInt(1000),
		PaymentExpiry:       24,
		AutoGenerateReceipt: true,
		NotifyOnPayment:     true,
	}
}

type PaymentGateway struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	TestMode  bool      `json:"test_mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentMethod struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
