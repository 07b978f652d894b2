package metering

import (
	"context"
	"errors"
	"testing"
	"time"

	engine "armonia-backend/internal/billing"
	billingdomain "armonia-backend/internal/domain/billing"
	"armonia-backend/internal/domain/inventory"
	"armonia-backend/internal/domain/metering"
	"armonia-backend/internal/domain/reservations"
	"armonia-backend/internal/infra/gateway"
	"armonia-backend/internal/infra/notify"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&metering.Meter{},
		&metering.Reading{},
		&metering.UtilityRate{},
		&inventory.Property{},
		&billingdomain.Transaction{},
		&billingdomain.PaymentSettings{},
		&billingdomain.PaymentGateway{},
		&billingdomain.PaymentMethod{},
		&reservations.Reservation{},
		&reservations.CommonArea{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func seedMeter(t *testing.T, db *gorm.DB) metering.Meter {
	t.Helper()
	owner := uint(7)
	property := inventory.Property{UnitNumber: "101", Coefficient: dec("1"), OwnerID: &owner}
	if err := db.Create(&property).Error; err != nil {
		t.Fatal(err)
	}
	meter := metering.Meter{PropertyID: property.ID, Type: metering.MeterWater, SerialNumber: "W-001", IsActive: true}
	if err := db.Create(&meter).Error; err != nil {
		t.Fatal(err)
	}
	return meter
}

func TestIngestReading_Delta(t *testing.T) {
	db := testDB(t)
	meter := seedMeter(t, db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := IngestReading(db, meter.ID, dec("100.5"), base)
	if err != nil {
		t.Fatalf("first reading: %v", err)
	}
	if !first.Consumption.IsZero() {
		t.Errorf("first consumption = %s, want 0", first.Consumption)
	}

	second, err := IngestReading(db, meter.ID, dec("112.25"), base.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("second reading: %v", err)
	}
	if !second.Consumption.Equal(dec("11.75")) {
		t.Errorf("second consumption = %s, want 11.75", second.Consumption)
	}

	if _, err := IngestReading(db, meter.ID, dec("50"), base.AddDate(0, 2, 0)); !errors.Is(err, ErrNegativeConsumption) {
		t.Errorf("expected ErrNegativeConsumption, got %v", err)
	}

	if _, err := IngestReading(db, 999, dec("1"), base); !errors.Is(err, ErrMeterNotFound) {
		t.Errorf("expected ErrMeterNotFound, got %v", err)
	}

	var count int64
	db.Model(&metering.Reading{}).Count(&count)
	if count != 2 {
		t.Errorf("readings stored = %d, want 2", count)
	}
}

func testEngine() *engine.Engine {
	return engine.NewEngine(
		gateway.NewMock("https://pay.example.test"),
		notify.NewLogSender(zap.NewNop()),
		zap.NewNop(),
	)
}

func TestGenerateBilling(t *testing.T) {
	db := testDB(t)
	meter := seedMeter(t, db)

	if err := db.Create(&billingdomain.PaymentGateway{Name: "mock", IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&billingdomain.PaymentMethod{Name: "card", IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&metering.UtilityRate{Type: metering.MeterWater, PricePerUnit: dec("850"), IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := IngestReading(db, meter.ID, dec("100"), base); err != nil {
		t.Fatal(err)
	}
	if _, err := IngestReading(db, meter.ID, dec("110"), base.AddDate(0, 0, 15)); err != nil {
		t.Fatal(err)
	}

	bills, err := GenerateBilling(context.Background(), db, testEngine(), base, base.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("GenerateBilling: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("bills = %d, want 1", len(bills))
	}

	bill := bills[0]
	if !bill.Consumption.Equal(dec("10")) {
		t.Errorf("consumption = %s, want 10", bill.Consumption)
	}
	if !bill.Amount.Equal(dec("8500")) {
		t.Errorf("amount = %s, want 8500", bill.Amount)
	}

	var txn billingdomain.Transaction
	if err := db.First(&txn, "id = ?", bill.TransactionID).Error; err != nil {
		t.Fatalf("transaction not stored: %v", err)
	}
	if txn.Status != billingdomain.StatusPending {
		t.Errorf("status = %s, want PENDING", txn.Status)
	}
	if txn.UserID != 7 {
		t.Errorf("user = %d, want owner 7", txn.UserID)
	}

	var readings []metering.Reading
	if err := db.Order("id ASC").Find(&readings).Error; err != nil {
		t.Fatal(err)
	}
	for _, r := range readings {
		if !r.Processed {
			t.Errorf("reading %d not processed", r.ID)
		}
		if r.TransactionID == nil || *r.TransactionID != bill.TransactionID {
			t.Errorf("reading %d not linked to transaction", r.ID)
		}
	}

	// second run over the same window finds nothing unprocessed
	again, err := GenerateBilling(context.Background(), db, testEngine(), base, base.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second run produced %d bills, want 0", len(again))
	}
}

func TestGenerateBilling_NoRate(t *testing.T) {
	db := testDB(t)
	meter := seedMeter(t, db)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := IngestReading(db, meter.ID, dec("10"), base); err != nil {
		t.Fatal(err)
	}
	if _, err := IngestReading(db, meter.ID, dec("20"), base.AddDate(0, 0, 1)); err != nil {
		t.Fatal(err)
	}

	_, err := GenerateBilling(context.Background(), db, testEngine(), base, base.AddDate(0, 1, 0))
	if !errors.Is(err, ErrNoActiveRate) {
		t.Errorf("expected ErrNoActiveRate, got %v", err)
	}
}

func TestProcessPendingReadings(t *testing.T) {
	db := testDB(t)
	meter := seedMeter(t, db)

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := IngestReading(db, meter.ID, dec("1"), base); err != nil {
		t.Fatal(err)
	}
	if _, err := IngestReading(db, meter.ID, dec("2"), base.AddDate(0, 0, 1)); err != nil {
		t.Fatal(err)
	}

	n, err := ProcessPendingReadings(db)
	if err != nil {
		t.Fatalf("ProcessPendingReadings: %v", err)
	}
	if n != 2 {
		t.Errorf("processed = %d, want 2", n)
	}

	n, err = ProcessPendingReadings(db)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second pass processed = %d, want 0", n)
	}
}
