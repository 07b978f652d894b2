package metering

import (
	"context"
	"errors"
	"fmt"
	"time"

	engine "armonia-backend/internal/billing"
	"armonia-backend/internal/domain/inventory"
	"armonia-backend/internal/domain/metering"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrMeterNotFound       = errors.New("meter not found")
	ErrNegativeConsumption = errors.New("reading is below the previous value")
	ErrNoActiveRate        = errors.New("no active rate for meter type")
)

// IngestReading stores a raw meter value and computes the consumption delta
// against the latest earlier reading. The first reading of a meter has zero
// consumption. A value below the previous one is rejected, re-reads after a
// meter swap need a new meter row.
func IngestReading(db *gorm.DB, meterID uint, value decimal.Decimal, readAt time.Time) (*metering.Reading, error) {
	var reading metering.Reading
	err := db.Transaction(func(tx *gorm.DB) error {
		var meter metering.Meter
		if err := tx.First(&meter, "id = ?", meterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeterNotFound
			}
			return err
		}

		var prev metering.Reading
		consumption := decimal.Zero
		err := tx.Where("meter_id = ? AND read_at < ?", meterID, readAt).
			Order("read_at DESC").
			First(&prev).Error
		switch {
		case err == nil:
			consumption = value.Sub(prev.Value)
			if consumption.IsNegative() {
				return ErrNegativeConsumption
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first reading, nothing to diff against
		default:
			return err
		}

		reading = metering.Reading{
			MeterID:     meterID,
			Value:       value,
			Consumption: consumption,
			ReadAt:      readAt,
		}
		return tx.Create(&reading).Error
	})
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// MeterBill is one generated charge: the unprocessed consumption of a meter
// over a period, priced at the active rate.
type MeterBill struct {
	MeterID       uint            `json:"meter_id"`
	PropertyID    uint            `json:"property_id"`
	Consumption   decimal.Decimal `json:"consumption"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Readings      int64           `json:"readings"`
}

// GenerateBilling turns unprocessed readings within [from, to) into PENDING
// payment transactions, one per meter, and links each reading to its
// transaction. Meters without an owner on the property are skipped.
func GenerateBilling(ctx context.Context, db *gorm.DB, eng *engine.Engine, from, to time.Time) ([]MeterBill, error) {
	var bills []MeterBill
	err := db.Transaction(func(tx *gorm.DB) error {
		var meters []metering.Meter
		if err := tx.Where("is_active = ?", true).Order("id ASC").Find(&meters).Error; err != nil {
			return err
		}

		for _, meter := range meters {
			var readings []metering.Reading
			if err := tx.Where("meter_id = ? AND processed = ? AND read_at >= ? AND read_at < ?",
				meter.ID, false, from, to).Find(&readings).Error; err != nil {
				return err
			}
			if len(readings) == 0 {
				continue
			}

			consumption := decimal.Zero
			ids := make([]uint, 0, len(readings))
			for _, r := range readings {
				consumption = consumption.Add(r.Consumption)
				ids = append(ids, r.ID)
			}
			if !consumption.IsPositive() {
				continue
			}

			var property inventory.Property
			if err := tx.First(&property, "id = ?", meter.PropertyID).Error; err != nil {
				return err
			}
			if property.OwnerID == nil {
				continue
			}

			var rate metering.UtilityRate
			if err := tx.Where("type = ? AND is_active = ?", meter.Type, true).
				Order("id ASC").First(&rate).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrNoActiveRate, meter.Type)
				}
				return err
			}

			amount := consumption.Mul(rate.PricePerUnit).Round(2)
			intent, err := eng.CreatePayment(ctx, tx, engine.CreatePaymentRequest{
				UserID: *property.OwnerID,
				Amount: amount,
				Description: fmt.Sprintf("Consumo de %s unidad %s (%s)",
					meter.Type, property.UnitNumber, meter.SerialNumber),
			})
			if err != nil {
				return err
			}

			if err := tx.Model(&metering.Reading{}).
				Where("id IN ?", ids).
				Updates(map[string]interface{}{
					"processed":      true,
					"transaction_id": intent.TransactionID,
				}).Error; err != nil {
				return err
			}

			bills = append(bills, MeterBill{
				MeterID:       meter.ID,
				PropertyID:    meter.PropertyID,
				Consumption:   consumption,
				Amount:        amount,
				TransactionID: intent.TransactionID,
				Readings:      int64(len(readings)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// ProcessPendingReadings flags every unprocessed reading as processed without
// generating charges. Kept for bulk imports of historical readings that were
// already billed elsewhere.
func ProcessPendingReadings(db *gorm.DB) (int64, error) {
	res := db.Model(&metering.Reading{}).
		Where("processed = ?", false).
		Update("processed", true)
	return res.RowsAffected, res.Error
}
