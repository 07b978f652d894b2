package database

import (
	"fmt"
	"log"
	"os"
	"sync"

	"armonia-backend/internal/domain/assemblies"
	"armonia-backend/internal/domain/billing"
	"armonia-backend/internal/domain/complexes"
	"armonia-backend/internal/domain/documents"
	"armonia-backend/internal/domain/inventory"
	"armonia-backend/internal/domain/metering"
	"armonia-backend/internal/domain/pqr"
	"armonia-backend/internal/domain/reservations"
	"armonia-backend/internal/domain/security"
	"armonia-backend/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// tenants caches one gorm handle per schema. They all share the underlying
// *sql.DB connection pool and differ only in table-name prefixing.
var tenants sync.Map

func tenantModels() []interface{} {
	return []interface{}{
		&billing.Transaction{},
		&billing.PaymentSettings{},
		&billing.PaymentGateway{},
		&billing.PaymentMethod{},
		&reservations.CommonArea{},
		&reservations.Reservation{},
		&pqr.Ticket{},
		&assemblies.Assembly{},
		&assemblies.AgendaItem{},
		&assemblies.Vote{},
		&inventory.Property{},
		&inventory.Resident{},
		&inventory.Vehicle{},
		&inventory.Pet{},
		&security.IncidentLog{},
		&documents.Document{},
		&metering.Meter{},
		&metering.Reading{},
		&metering.UtilityRate{},
	}
}

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// Shared (public schema) models only; tenant models migrate per schema.
	if err := DB.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},
		&complexes.ResidentialComplex{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// Tenant returns a gorm handle whose queries are namespaced to the given
// schema. Handles are cached; the connection pool is shared with DB.
func Tenant(schemaName string) (*gorm.DB, error) {
	if schemaName == "" {
		return nil, fmt.Errorf("empty tenant schema")
	}
	if cached, ok := tenants.Load(schemaName); ok {
		return cached.(*gorm.DB), nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, err
	}
	tdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{TablePrefix: schemaName + "."},
	})
	if err != nil {
		return nil, err
	}

	actual, _ := tenants.LoadOrStore(schemaName, tdb)
	return actual.(*gorm.DB), nil
}

// MigrateTenant provisions a schema and migrates all tenant models into it.
// Called when a residential complex is registered.
func MigrateTenant(schemaName string) error {
	if err := DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q;`, schemaName)).Error; err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}
	tdb, err := Tenant(schemaName)
	if err != nil {
		return err
	}
	if err := tdb.AutoMigrate(tenantModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema %s: %w", schemaName, err)
	}
	return nil
}

// TenantSchemas lists every provisioned tenant schema, used by background
// sweeps that must visit all complexes.
func TenantSchemas() ([]string, error) {
	var schemas []string
	err := DB.Model(&complexes.ResidentialComplex{}).Pluck("schema_name", &schemas).Error
	return schemas, err
}
