package billing

import (
	"errors"

	domain "armonia-backend/internal/domain/billing"

	"gorm.io/gorm"
)

// resolveSettings returns the tenant's payment settings, creating the
// singleton row with defaults on first access. Two concurrent first calls can
// both attempt the insert; the schema's primary key is the tiebreaker.
func (e *Engine) resolveSettings(tx *gorm.DB) (*domain.PaymentSettings, error) {
	var s domain.PaymentSettings
	err := tx.Order("id").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = domain.DefaultSettings()
	if err := tx.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// resolveGateway prefers the configured default gateway when it is still
// active, otherwise falls back to the first active one.
func (e *Engine) resolveGateway(tx *gorm.DB, settings *domain.PaymentSettings) (*domain.PaymentGateway, error) {
	var gw domain.PaymentGateway

	if settings.DefaultGatewayID != nil {
		err := tx.First(&gw, "id = ? AND is_active = ?", *settings.DefaultGatewayID, true).Error
		if err == nil {
			return &gw, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := tx.Order("id").First(&gw, "is_active = ?", true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGateway
		}
		return nil, err
	}
	return &gw, nil
}

// resolveMethod returns the requested method id or the first active method by
// ascending id.
func (e *Engine) resolveMethod(tx *gorm.DB, methodID *uint) (*uint, error) {
	if methodID != nil {
		return methodID, nil
	}

	var m domain.PaymentMethod
	err := tx.Order("id").First(&m, "is_active = ?", true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPaymentMethod
		}
		return nil, err
	}
	return &m.ID, nil
}
