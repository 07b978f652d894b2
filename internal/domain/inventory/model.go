package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UnitNumber  string          `gorm:"not null;uniqueIndex" json:"unit_number"`
	Type        string          `gorm:"size:20" json:"type"` // APARTMENT, HOUSE, COMMERCIAL
	Coefficient decimal.Decimal `gorm:"type:numeric(8,6)" json:"coefficient"`
	OwnerID     *uint           `gorm:"index" json:"owner_id,omitempty"`
	AreaM2      float64         `json:"area_m2"`
	IsOccupied  bool            `json:"is_occupied"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Resident struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"index" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsOwner    bool      `json:"is_owner"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"index" json:"property_id"`
	Plate      string    `gorm:"not null;uniqueIndex" json:"plate"`
	Type       string    `gorm:"size:20" json:"type"` // CAR, MOTORCYCLE, BICYCLE
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Pet struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"index" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	Species    string    `gorm:"size:20" json:"species"`
	Breed      string    `json:"breed"`
	Vaccinated bool      `json:"vaccinated"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
