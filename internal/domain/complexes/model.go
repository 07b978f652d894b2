package complexes

import "time"

// ResidentialComplex lives in the shared (public) schema and owns the tenant
// schema name every other record of the complex is namespaced under.
type ResidentialComplex struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	SchemaName string    `gorm:"not null;uniqueIndex" json:"schema_name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	TotalUnits int       `json:"total_units"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
