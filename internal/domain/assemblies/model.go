package assemblies

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssemblyStatus string

const (
	StatusScheduled  AssemblyStatus = "SCHEDULED"
	StatusInProgress AssemblyStatus = "IN_PROGRESS"
	StatusCompleted  AssemblyStatus = "COMPLETED"
)

type VoteChoice string

const (
	VoteYes     VoteChoice = "YES"
	VoteNo      VoteChoice = "NO"
	VoteAbstain VoteChoice = "ABSTAIN"
)

type Assembly struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"not null" json:"title"`
	Description    string          `json:"description"`
	ScheduledAt    time.Time       `json:"scheduled_at"`
	Status         AssemblyStatus  `gorm:"size:12;index" json:"status"`
	RequiredQuorum decimal.Decimal `gorm:"type:numeric(5,2)" json:"required_quorum"` // percent
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type AgendaItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AssemblyID uint      `gorm:"index" json:"assembly_id"`
	Topic      string    `gorm:"not null" json:"topic"`
	VotingOpen bool      `json:"voting_open"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vote is one ballot per property per agenda item, weighted by the property's
// ownership coefficient at the time of casting.
type Vote struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AgendaItemID uint            `gorm:"index;uniqueIndex:idx_votes_item_property" json:"agenda_item_id"`
	PropertyID   uint            `gorm:"uniqueIndex:idx_votes_item_property" json:"property_id"`
	Coefficient  decimal.Decimal `gorm:"type:numeric(8,6)" json:"coefficient"`
	Choice       VoteChoice      `gorm:"size:8" json:"choice"`
	CreatedAt    time.Time       `json:"created_at"`
}
