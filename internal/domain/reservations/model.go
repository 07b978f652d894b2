package reservations

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusRejected  ReservationStatus = "REJECTED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentNone      PaymentStatus = "NONE"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

type CommonArea struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `json:"description"`
	Capacity        int             `json:"capacity"`
	FeeAmount       decimal.Decimal `gorm:"type:numeric(14,2)" json:"fee_amount"`
	RequiresPayment bool            `json:"requires_payment"`
	IsActive        bool            `gorm:"index" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CommonAreaID    uint              `gorm:"index" json:"common_area_id"`
	CommonArea      CommonArea        `json:"common_area"`
	PropertyID      *uint             `gorm:"index" json:"property_id,omitempty"`
	UserID          uint              `gorm:"index" json:"user_id"`
	StartDateTime   time.Time         `json:"start_date_time"`
	EndDateTime     time.Time         `json:"end_date_time"`
	Status          ReservationStatus `gorm:"size:12;index" json:"status"`
	RequiresPayment bool              `json:"requires_payment"`
	PaymentAmount   *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"payment_amount,omitempty"`
	PaymentStatus   PaymentStatus     `gorm:"size:12" json:"payment_status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
