package pqr

import "time"

type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
	StatusClosed     TicketStatus = "CLOSED"
)

type Category string

const (
	CategoryMaintenance Category = "MAINTENANCE"
	CategorySecurity    Category = "SECURITY"
	CategoryNoise       Category = "NOISE"
	CategoryPayments    Category = "PAYMENTS"
	CategoryOther       Category = "OTHER"
)

// SLAHours returns the resolution window committed for a category.
func (c Category) SLAHours() int {
	switch c {
	case CategorySecurity:
		return 24
	case CategoryMaintenance:
		return 72
	case CategoryPayments:
		return 48
	default:
		return 120
	}
}

// Ticket is a PQR record ("Petición, Queja, Reclamo").
type Ticket struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"index" json:"user_id"`
	Category     Category     `gorm:"size:20;index" json:"category"`
	Priority     string       `gorm:"size:10" json:"priority"`
	Subject      string       `gorm:"not null" json:"subject"`
	Description  string       `json:"description"`
	Status       TicketStatus `gorm:"size:12;index" json:"status"`
	AssignedToID *uint        `json:"assigned_to_id,omitempty"`
	SLAHours     int          `json:"sla_hours"`
	ResolvedAt   *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
