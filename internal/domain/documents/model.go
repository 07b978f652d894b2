package documents

import "time"

type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Type         string    `gorm:"size:20;index" json:"type"` // MINUTES, REGULATION, BUDGET, OTHER
	URL          string    `gorm:"not null" json:"url"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedByID uint      `gorm:"index" json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
