package security

import "time"

// IncidentLog is an entry in the reception/guard minute book.
type IncidentLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReportedByID uint      `gorm:"index" json:"reported_by_id"`
	Shift        string    `gorm:"size:10" json:"shift"`    // DAY, NIGHT
	Severity     string    `gorm:"size:10" json:"severity"` // LOW, MEDIUM, HIGH
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	OccurredAt   time.Time `json:"occurred_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
