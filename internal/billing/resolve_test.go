package billing

import (
	"errors"
	"testing"

	domain "armonia-backend/internal/domain/billing"
)

func TestResolveSettings_GetOrCreate(t *testing.T) {
	eng, db := testEngine(t)

	s, err := eng.resolveSettings(db)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.PaymentExpiry != 24 {
		t.Errorf("payment expiry = %d, want 24", s.PaymentExpiry)
	}

	// second call reads the same row instead of creating another
	again, err := eng.resolveSettings(db)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != s.ID {
		t.Errorf("settings id changed: %d vs %d", again.ID, s.ID)
	}
	var n int64
	if err := db.Model(&domain.PaymentSettings{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("settings rows = %d, want 1", n)
	}
}

func TestResolveGateway(t *testing.T) {
	eng, db := testEngine(t)

	gws := []domain.PaymentGateway{
		{ID: 1, Name: "Wompi", IsActive: false},
		{ID: 2, Name: "PayU", IsActive: true},
		{ID: 3, Name: "Stripe", IsActive: true},
	}
	for i := range gws {
		if err := db.Create(&gws[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	t.Run("prefers active default", func(t *testing.T) {
		id := uint(3)
		gw, err := eng.resolveGateway(db, &domain.PaymentSettings{DefaultGatewayID: &id})
		if err != nil {
			t.Fatal(err)
		}
		if gw.ID != 3 {
			t.Errorf("gateway = %d, want 3", gw.ID)
		}
	})

	t.Run("inactive default falls back to first active", func(t *testing.T) {
		id := uint(1)
		gw, err := eng.resolveGateway(db, &domain.PaymentSettings{DefaultGatewayID: &id})
		if err != nil {
			t.Fatal(err)
		}
		if gw.ID != 2 {
			t.Errorf("gateway = %d, want 2", gw.ID)
		}
	})

	t.Run("no default picks first active", func(t *testing.T) {
		gw, err := eng.resolveGateway(db, &domain.PaymentSettings{})
		if err != nil {
			t.Fatal(err)
		}
		if gw.ID != 2 {
			t.Errorf("gateway = %d, want 2", gw.ID)
		}
	})

	t.Run("none active", func(t *testing.T) {
		if err := db.Model(&domain.PaymentGateway{}).Where("1 = 1").Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		_, err := eng.resolveGateway(db, &domain.PaymentSettings{})
		if !errors.Is(err, ErrNoGateway) {
			t.Errorf("err = %v, want ErrNoGateway", err)
		}
	})
}

func TestResolveMethod(t *testing.T) {
	eng, db := testEngine(t)

	t.Run("none configured", func(t *testing.T) {
		_, err := eng.resolveMethod(db, nil)
		if !errors.Is(err, ErrNoPaymentMethod) {
			t.Errorf("err = %v, want ErrNoPaymentMethod", err)
		}
	})

	methods := []domain.PaymentMethod{
		{ID: 1, Name: "Tarjeta", IsActive: false},
		{ID: 2, Name: "PSE", IsActive: true},
		{ID: 3, Name: "Efectivo", IsActive: true},
	}
	for i := range methods {
		if err := db.Create(&methods[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	t.Run("first active ascending", func(t *testing.T) {
		id, err := eng.resolveMethod(db, nil)
		if err != nil {
			t.Fatal(err)
		}
		if *id != 2 {
			t.Errorf("method = %d, want 2", *id)
		}
	})

	t.Run("explicit id wins", func(t *testing.T) {
		want := uint(3)
		id, err := eng.resolveMethod(db, &want)
		if err != nil {
			t.Fatal(err)
		}
		if *id != 3 {
			t.Errorf("method = %d, want 3", *id)
		}
	})
}
