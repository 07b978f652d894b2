package metering

import (
	"time"

	"github.com/shopspring/decimal"
)

type MeterType string

const (
	MeterWater  MeterType = "WATER"
	MeterGas    MeterType = "GAS"
	MeterEnergy MeterType = "ENERGY"
)

type Meter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PropertyID   uint      `gorm:"index" json:"property_id"`
	Type         MeterType `gorm:"size:10;index" json:"type"`
	SerialNumber string    `gorm:"not null;uniqueIndex" json:"serial_number"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Reading stores the raw meter value plus the consumption delta against the
// previous reading, computed at ingestion.
type Reading struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MeterID       uint            `gorm:"index" json:"meter_id"`
	Value         decimal.Decimal `gorm:"type:numeric(14,3)" json:"value"`
	Consumption   decimal.Decimal `gorm:"type:numeric(14,3)" json:"consumption"`
	ReadAt        time.Time       `gorm:"index" json:"read_at"`
	Processed     bool            `gorm:"index" json:"processed"`
	TransactionID *string         `gorm:"size:44" json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type UtilityRate struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Type         MeterType       `gorm:"size:10;index" json:"type"`
	PricePerUnit decimal.Decimal `gorm:"type:numeric(14,4)" json:"price_per_unit"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
