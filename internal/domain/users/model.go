package users

import (
	"time"

	"armonia-backend/internal/domain/complexes"
)

const (
	RoleAdmin        = "ADMIN"
	RoleComplexAdmin = "COMPLEX_ADMIN"
	RoleResident     = "RESIDENT"
	RoleReception    = "RECEPTION"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Tel          string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'RESIDENT'"`
	IsVerified   bool

	ComplexID *uint
	Complex   *complexes.ResidentialComplex

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SchemaName resolves the tenant schema the user belongs to, empty for
// platform admins not attached to a complex.
func (u *User) SchemaName() string {
	if u.Complex == nil {
		return ""
	}
	return u.Complex.SchemaName
}
