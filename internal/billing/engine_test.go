package billing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	domain "armonia-backend/internal/domain/billing"
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
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one in-memory database, one connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&domain.Transaction{},
		&domain.PaymentSettings{},
		&domain.PaymentGateway{},
		&domain.PaymentMethod{},
		&reservations.CommonArea{},
		&reservations.Reservation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	eng := NewEngine(gateway.NewMock(""), notify.NewLogSender(zap.NewNop()), zap.NewNop())
	return eng, db
}

func seedGatewayAndMethod(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Create(&domain.PaymentGateway{ID: 1, Name: "Wompi", IsActive: true}).Error; err != nil {
		t.Fatalf("seed gateway: %v", err)
	}
	if err := db.Create(&domain.PaymentMethod{ID: 1, Name: "PSE", IsActive: true}).Error; err != nil {
		t.Fatalf("seed method: %v", err)
	}
}

func seedSettings(t *testing.T, db *gorm.DB, defaultGatewayID uint) {
	t.Helper()
	s := domain.DefaultSettings()
	s.DefaultGatewayID = &defaultGatewayID
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCreatePayment(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)
	seedSettings(t, db, 1)

	before := time.Now()
	intent, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID:      1,
		Amount:      decimal.NewFromInt(50000),
		Description: "Test",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if intent.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", intent.Status)
	}
	if !intent.ExpiresAt.After(before) {
		t.Errorf("expires_at %v not after now", intent.ExpiresAt)
	}
	wantExpiry := before.Add(24 * time.Hour)
	if diff := intent.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expires_at = %v, want ~now+24h", intent.ExpiresAt)
	}
	if intent.PaymentURL == "" {
		t.Error("payment url empty")
	}
	if !strings.HasPrefix(intent.GatewayReference, "PAY-") {
		t.Errorf("gateway reference %q lacks PAY- prefix", intent.GatewayReference)
	}

	var txn domain.Transaction
	if err := db.First(&txn, "id = ?", intent.TransactionID).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", txn.Attempts)
	}
	if txn.Currency != "COP" {
		t.Errorf("currency = %s, want COP default", txn.Currency)
	}
	if txn.GatewayReference != intent.GatewayReference {
		t.Errorf("stored reference %q != returned %q", txn.GatewayReference, intent.GatewayReference)
	}
	pctx, err := domain.ParseContext(txn.Metadata)
	if err != nil {
		t.Fatalf("parse context: %v", err)
	}
	if pctx.Type != domain.ContextStandalone {
		t.Errorf("context type = %s, want standalone", pctx.Type)
	}
}

func TestCreatePayment_InvalidAmount(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5000)} {
		t.Run(amount.String(), func(t *testing.T) {
			_, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
				UserID:      1,
				Amount:      amount,
				Description: "Test",
			})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			found := false
			for _, v := range verr.Violations {
				if strings.HasPrefix(v, "Amount") {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v missing Amount", verr.Violations)
			}
		})
	}

	if n := countTransactions(t, db); n != 0 {
		t.Errorf("transactions written = %d, want 0", n)
	}
}

func TestCreatePayment_MissingFields(t *testing.T) {
	eng, db := testEngine(t)

	_, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		Amount: decimal.NewFromInt(1000),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Violations) < 2 {
		t.Errorf("violations = %v, want UserID and Description flagged", verr.Violations)
	}
}

func TestCreatePayment_NoGateway(t *testing.T) {
	eng, db := testEngine(t)
	// no gateways at all

	_, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID:      1,
		Amount:      decimal.NewFromInt(5000),
		Description: "Test",
	})
	if !errors.Is(err, ErrNoGateway) {
		t.Fatalf("err = %v, want ErrNoGateway", err)
	}
	if n := countTransactions(t, db); n != 0 {
		t.Errorf("transactions written = %d, want 0", n)
	}
}

func TestCreatePayment_NoPaymentMethod(t *testing.T) {
	eng, db := testEngine(t)
	if err := db.Create(&domain.PaymentGateway{ID: 1, Name: "Wompi", IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}

	_, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID:      1,
		Amount:      decimal.NewFromInt(5000),
		Description: "Test",
	})
	if !errors.Is(err, ErrNoPaymentMethod) {
		t.Fatalf("err = %v, want ErrNoPaymentMethod", err)
	}
}

func TestCreatePayment_LazySettings(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)
	// no settings row: defaults must be created on first access

	_, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID:      1,
		Amount:      decimal.NewFromInt(5000),
		Description: "Test",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	var s domain.PaymentSettings
	if err := db.First(&s).Error; err != nil {
		t.Fatalf("settings row not created: %v", err)
	}
	if !s.AllowSaveCards || !s.AutoGenerateReceipt || !s.NotifyOnPayment {
		t.Errorf("boolean defaults wrong: %+v", s)
	}
	if s.PaymentExpiry != 24 {
		t.Errorf("payment expiry = %d, want 24", s.PaymentExpiry)
	}
	if !s.MinPaymentAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("min payment amount = %s, want 1000", s.MinPaymentAmount)
	}
}

func seedReservation(t *testing.T, db *gorm.DB) *reservations.Reservation {
	t.Helper()
	area := reservations.CommonArea{Name: "Salón Social", RequiresPayment: true, IsActive: true}
	if err := db.Create(&area).Error; err != nil {
		t.Fatal(err)
	}
	r := reservations.Reservation{
		CommonAreaID:  area.ID,
		UserID:        7,
		StartDateTime: time.Now().Add(48 * time.Hour),
		EndDateTime:   time.Now().Add(52 * time.Hour),
		Status:        reservations.StatusPending,
		PaymentStatus: reservations.PaymentNone,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatal(err)
	}
	return &r
}

func TestCreateReservationPayment(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)
	r := seedReservation(t, db)

	due := time.Now().Add(72 * time.Hour)
	intent, err := eng.CreateReservationPayment(context.Background(), db, ReservationPaymentRequest{
		ReservationID: r.ID,
		UserID:        r.UserID,
		Amount:        decimal.NewFromInt(80000),
		DueDate:       &due,
	})
	if err != nil {
		t.Fatalf("CreateReservationPayment: %v", err)
	}
	if !intent.ExpiresAt.Equal(due) {
		t.Errorf("expires_at = %v, want due date %v", intent.ExpiresAt, due)
	}

	var txn domain.Transaction
	if err := db.First(&txn, "id = ?", intent.TransactionID).Error; err != nil {
		t.Fatal(err)
	}
	pctx, err := domain.ParseContext(txn.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if pctx.Type != domain.ContextReservation || pctx.ReservationID != r.ID {
		t.Errorf("context = %+v, want reservation link to %d", pctx, r.ID)
	}
	if pctx.CommonAreaName != "Salón Social" {
		t.Errorf("common area name = %q", pctx.CommonAreaName)
	}

	var updated reservations.Reservation
	if err := db.First(&updated, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !updated.RequiresPayment {
		t.Error("reservation not flagged requires_payment")
	}
	if updated.PaymentStatus != reservations.PaymentPending {
		t.Errorf("payment_status = %s, want PENDING", updated.PaymentStatus)
	}
	if updated.PaymentAmount == nil || !updated.PaymentAmount.Equal(decimal.NewFromInt(80000)) {
		t.Errorf("payment_amount = %v, want 80000", updated.PaymentAmount)
	}
}

func TestCreateReservationPayment_NotFound(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)

	_, err := eng.CreateReservationPayment(context.Background(), db, ReservationPaymentRequest{
		ReservationID: 999,
		UserID:        1,
		Amount:        decimal.NewFromInt(1000),
	})
	if !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
}

func TestConfirmPayment_CompletedCascade(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)
	r := seedReservation(t, db)

	intent, err := eng.CreateReservationPayment(context.Background(), db, ReservationPaymentRequest{
		ReservationID: r.ID,
		UserID:        r.UserID,
		Amount:        decimal.NewFromInt(80000),
	})
	if err != nil {
		t.Fatal(err)
	}

	err = eng.ConfirmPayment(context.Background(), db, intent.TransactionID, ConfirmPaymentRequest{
		GatewayReference: intent.GatewayReference,
		GatewayResponse:  json.RawMessage(`{"ok":true}`),
		Status:           domain.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	var txn domain.Transaction
	if err := db.First(&txn, "id = ?", intent.TransactionID).Error; err != nil {
		t.Fatal(err)
	}
	if txn.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", txn.Status)
	}
	if txn.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	var updated reservations.Reservation
	if err := db.First(&updated, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.PaymentStatus != reservations.PaymentCompleted {
		t.Errorf("payment_status = %s, want COMPLETED", updated.PaymentStatus)
	}
	if updated.Status != reservations.StatusApproved {
		t.Errorf("status = %s, want APPROVED (cleared invoice implies approval)", updated.Status)
	}
}

func TestConfirmPayment_Failed(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)

	intent, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID: 1, Amount: decimal.NewFromInt(5000), Description: "Test",
	})
	if err != nil {
		t.Fatal(err)
	}

	err = eng.ConfirmPayment(context.Background(), db, intent.TransactionID, ConfirmPaymentRequest{
		GatewayReference: intent.GatewayReference,
		Status:           domain.StatusFailed,
	})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	var txn domain.Transaction
	if err := db.First(&txn, "id = ?", intent.TransactionID).Error; err != nil {
		t.Fatal(err)
	}
	if txn.Status != domain.StatusFailed {
		t.Errorf("status = %s, want FAILED", txn.Status)
	}
	if txn.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil on failure", txn.CompletedAt)
	}
}

func TestConfirmPayment_Validation(t *testing.T) {
	eng, db := testEngine(t)

	t.Run("empty reference", func(t *testing.T) {
		err := eng.ConfirmPayment(context.Background(), db, "txn_x", ConfirmPaymentRequest{
			Status: domain.StatusCompleted,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		err := eng.ConfirmPayment(context.Background(), db, "txn_x", ConfirmPaymentRequest{
			GatewayReference: "REF-1",
			Status:           domain.StatusRefunded,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})
}

func TestConfirmPayment_NotFound(t *testing.T) {
	eng, db := testEngine(t)

	err := eng.ConfirmPayment(context.Background(), db, "txn_missing", ConfirmPaymentRequest{
		GatewayReference: "REF-1",
		Status:           domain.StatusCompleted,
	})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
}

// Double confirmation re-applies the reservation cascade. That is the current
// behavior, pinned here on purpose; it is not a correctness guarantee.
func TestConfirmPayment_NotIdempotent(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)
	r := seedReservation(t, db)

	intent, err := eng.CreateReservationPayment(context.Background(), db, ReservationPaymentRequest{
		ReservationID: r.ID, UserID: r.UserID, Amount: decimal.NewFromInt(80000),
	})
	if err != nil {
		t.Fatal(err)
	}

	confirm := func() {
		t.Helper()
		if err := eng.ConfirmPayment(context.Background(), db, intent.TransactionID, ConfirmPaymentRequest{
			GatewayReference: intent.GatewayReference,
			Status:           domain.StatusCompleted,
		}); err != nil {
			t.Fatal(err)
		}
	}

	confirm()

	// knock the reservation back; a second confirm re-approves it
	if err := db.Model(&reservations.Reservation{}).Where("id = ?", r.ID).
		Update("status", reservations.StatusRejected).Error; err != nil {
		t.Fatal(err)
	}

	confirm()

	var updated reservations.Reservation
	if err := db.First(&updated, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Status != reservations.StatusApproved {
		t.Errorf("status = %s, want APPROVED re-applied by second confirm", updated.Status)
	}
}

func TestGetTransactionStatus(t *testing.T) {
	eng, db := testEngine(t)
	seedGatewayAndMethod(t, db)

	intent, err := eng.CreatePayment(context.Background(), db, CreatePaymentRequest{
		UserID: 1, Amount: decimal.NewFromInt(5000), Description: "Cuota admin",
	})
	if err != nil {
		t.Fatal(err)
	}

	view, err := eng.GetTransactionStatus(db, intent.TransactionID)
	if err != nil {
		t.Fatalf("GetTransactionStatus: %v", err)
	}
	if view.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", view.Status)
	}
	if view.Description != "Cuota admin" {
		t.Errorf("description = %q", view.Description)
	}
	if !view.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount = %s, want 5000", view.Amount)
	}

	if _, err := eng.GetTransactionStatus(db, "txn_missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("err = %v, want ErrTransactionNotFound", err)
	}
}

func seedCompletedTransaction(t *testing.T, db *gorm.DB, amount int64) *domain.Transaction {
	t.Helper()
	now := time.Now()
	txn := domain.Transaction{
		ID:               domain.NewTransactionID(),
		UserID:           1,
		Amount:           decimal.NewFromInt(amount),
		Currency:         "COP",
		Description:      "Cuota",
		Status:           domain.StatusCompleted,
		GatewayReference: "PAY-ORIGINAL",
		CompletedAt:      &now,
		Attempts:         1,
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatal(err)
	}
	return &txn
}

func TestProcessRefund_Full(t *testing.T) {
	eng, db := testEngine(t)
	orig := seedCompletedTransaction(t, db, 100000)

	res, err := eng.ProcessRefund(context.Background(), db, orig.ID, nil, "duplicado")
	if err != nil {
		t.Fatalf("ProcessRefund: %v", err)
	}
	if res.Status != domain.StatusCompleted {
		t.Errorf("refund status = %s, want COMPLETED", res.Status)
	}

	var refund domain.Transaction
	if err := db.First(&refund, "id = ?", res.RefundID).Error; err != nil {
		t.Fatal(err)
	}
	if !refund.Amount.Equal(decimal.NewFromInt(-100000)) {
		t.Errorf("refund amount = %s, want -100000", refund.Amount)
	}
	if refund.GatewayReference != "REFUND-PAY-ORIGINAL" {
		t.Errorf("refund reference = %q", refund.GatewayReference)
	}
	if refund.CompletedAt == nil {
		t.Error("refund completed_at not set")
	}

	pctx, err := domain.ParseContext(refund.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if pctx.OriginalTransactionID != orig.ID {
		t.Errorf("original id = %q, want %q", pctx.OriginalTransactionID, orig.ID)
	}
	if pctx.RefundType != "full" {
		t.Errorf("refund type = %q, want full", pctx.RefundType)
	}
	if pctx.RefundReason != "duplicado" {
		t.Errorf("refund reason = %q", pctx.RefundReason)
	}

	var updated domain.Transaction
	if err := db.First(&updated, "id = ?", orig.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.StatusRefunded {
		t.Errorf("original status = %s, want REFUNDED", updated.Status)
	}
}

func TestProcessRefund_Partial(t *testing.T) {
	eng, db := testEngine(t)
	orig := seedCompletedTransaction(t, db, 100000)

	amount := decimal.NewFromInt(30000)
	res, err := eng.ProcessRefund(context.Background(), db, orig.ID, &amount, "partial")
	if err != nil {
		t.Fatalf("ProcessRefund: %v", err)
	}

	var refund domain.Transaction
	if err := db.First(&refund, "id = ?", res.RefundID).Error; err != nil {
		t.Fatal(err)
	}
	if !refund.Amount.Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("refund amount = %s, want -30000", refund.Amount)
	}
	pctx, err := domain.ParseContext(refund.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if pctx.RefundType != "partial" {
		t.Errorf("refund type = %q, want partial", pctx.RefundType)
	}

	// the original is still marked REFUNDED even though only part of the
	// amount came back
	var updated domain.Transaction
	if err := db.First(&updated, "id = ?", orig.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.StatusRefunded {
		t.Errorf("original status = %s, want REFUNDED", updated.Status)
	}
}

func TestProcessRefund_NotCompleted(t *testing.T) {
	eng, db := testEngine(t)

	txn := domain.Transaction{
		ID:     domain.NewTransactionID(),
		UserID: 1,
		Amount: decimal.NewFromInt(5000),
		Status: domain.StatusPending,
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatal(err)
	}

	_, err := eng.ProcessRefund(context.Background(), db, txn.ID, nil, "")
	if !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("err = %v, want ErrNotRefundable", err)
	}
	if n := countTransactions(t, db); n != 1 {
		t.Errorf("transactions = %d, want only the original", n)
	}

	if _, err := eng.ProcessRefund(context.Background(), db, "txn_missing", nil, ""); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestSweepExpired(t *testing.T) {
	eng, db := testEngine(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expired := domain.Transaction{ID: domain.NewTransactionID(), Status: domain.StatusPending, ExpiresAt: &past}
	alive := domain.Transaction{ID: domain.NewTransactionID(), Status: domain.StatusPending, ExpiresAt: &future}
	done := domain.Transaction{ID: domain.NewTransactionID(), Status: domain.StatusCompleted, ExpiresAt: &past}
	for _, txn := range []*domain.Transaction{&expired, &alive, &done} {
		if err := db.Create(txn).Error; err != nil {
			t.Fatal(err)
		}
	}

	n, err := eng.SweepExpired(context.Background(), db)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("swept = %d, want 1", n)
	}

	var check domain.Transaction
	if err := db.First(&check, "id = ?", expired.ID).Error; err != nil {
		t.Fatal(err)
	}
	if check.Status != domain.StatusFailed {
		t.Errorf("expired status = %s, want FAILED", check.Status)
	}
	check = domain.Transaction{}
	if err := db.First(&check, "id = ?", alive.ID).Error; err != nil {
		t.Fatal(err)
	}
	if check.Status != domain.StatusPending {
		t.Errorf("alive status = %s, want PENDING untouched", check.Status)
	}
	check = domain.Transaction{}
	if err := db.First(&check, "id = ?", done.ID).Error; err != nil {
		t.Fatal(err)
	}
	if check.Status != domain.StatusCompleted {
		t.Errorf("completed status = %s, want COMPLETED untouched", check.Status)
	}
}
