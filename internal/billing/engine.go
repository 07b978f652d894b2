package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "armonia-backend/internal/domain/billing"
	"armonia-backend/internal/domain/reservations"
	"armonia-backend/internal/infra/gateway"
	"armonia-backend/internal/infra/notify"
	"armonia-backend/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoGateway           = errors.New("no payment gateway configured")
	ErrNoPaymentMethod     = errors.New("no payment methods configured")
	ErrNotRefundable       = errors.New("only completed transactions can be refunded")
)

// ValidationError lists every schema violation found in a request.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Violations, "; ")
}

// Engine orchestrates the payment transaction lifecycle:
// PENDING → {COMPLETED, FAILED} via ConfirmPayment, COMPLETED → REFUNDED via
// ProcessRefund, PENDING → FAILED past expiry via SweepExpired.
// All dependencies are injected at construction; methods receive a
// tenant-scoped *gorm.DB per call.
type Engine struct {
	gateway  gateway.Client
	notifier notify.Sender
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewEngine(gw gateway.Client, sender notify.Sender, log *zap.Logger) *Engine {
	return &Engine{
		gateway:  gw,
		notifier: sender,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

type CreatePaymentRequest struct {
	UserID      uint            `validate:"required"`
	Amount      decimal.Decimal `validate:"-"`
	Currency    string          `validate:"omitempty,len=3"`
	Description string          `validate:"required"`
	Context     domain.PaymentContext
	MethodID    *uint
	ReturnURL   string
	ExpiresAt   *time.Time
}

type PaymentIntent struct {
	TransactionID    string                   `json:"transaction_id"`
	PaymentURL       string                   `json:"payment_url"`
	Status           domain.TransactionStatus `json:"status"`
	GatewayReference string                   `json:"gateway_reference"`
	ExpiresAt        time.Time                `json:"expires_at"`
}

func (e *Engine) validateCreate(req *CreatePaymentRequest) error {
	var violations []string
	if err := e.validate.Struct(req); err != nil {
		var ferrs validator.ValidationErrors
		if !errors.As(err, &ferrs) {
			return err
		}
		for _, fe := range ferrs {
			violations = append(violations, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	if req.Amount.Sign() <= 0 {
		violations = append(violations, "Amount: gt=0")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// CreatePayment registers a PENDING transaction and obtains a checkout URL
// from the gateway. The row create and the gateway-field update share one
// database transaction, so a gateway failure leaves no orphan row.
func (e *Engine) CreatePayment(ctx context.Context, db *gorm.DB, req CreatePaymentRequest) (*PaymentIntent, error) {
	if err := e.validateCreate(&req); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	pctx := req.Context
	if pctx.Type == "" {
		pctx = domain.StandaloneContext()
	}
	meta, err := pctx.JSON()
	if err != nil {
		return nil, &ValidationError{Violations: []string{"Context: " + err.Error()}}
	}

	var (
		txn    domain.Transaction
		result *gateway.CheckoutResult
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		settings, err := e.resolveSettings(tx)
		if err != nil {
			return err
		}
		gw, err := e.resolveGateway(tx, settings)
		if err != nil {
			return err
		}
		methodID, err := e.resolveMethod(tx, req.MethodID)
		if err != nil {
			return err
		}

		expiresAt := e.now().Add(time.Duration(settings.PaymentExpiry) * time.Hour)
		if req.ExpiresAt != nil {
			expiresAt = *req.ExpiresAt
		}

		txn = domain.Transaction{
			ID:          domain.NewTransactionID(),
			UserID:      req.UserID,
			Amount:      req.Amount,
			Currency:    currency,
			Description: req.Description,
			Status:      domain.StatusPending,
			GatewayID:   &gw.ID,
			MethodID:    methodID,
			Metadata:    meta,
			ExpiresAt:   &expiresAt,
			Attempts:    1,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		result, err = e.gateway.ProcessPayment(ctx, req.Amount, currency, req.Description, req.ReturnURL)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"gateway_reference": result.Reference,
			"gateway_response":  datatypes.JSON(result.RawResponse),
		}
		if err := tx.Model(&domain.Transaction{}).Where("id = ?", txn.ID).Updates(updates).Error; err != nil {
			return err
		}
		txn.GatewayReference = result.Reference
		return nil
	})
	if err != nil {
		metrics.IncPayment("create", "error")
		return nil, fmt.Errorf("error creando pago: %w", err)
	}

	e.log.Info("payment created",
		zap.String("transaction_id", txn.ID),
		zap.Uint("user_id", txn.UserID),
		zap.String("amount", txn.Amount.String()),
		zap.String("currency", txn.Currency),
	)
	metrics.IncPayment("create", "pending")

	return &PaymentIntent{
		TransactionID:    txn.ID,
		PaymentURL:       result.PaymentURL,
		Status:           domain.StatusPending,
		GatewayReference: txn.GatewayReference,
		ExpiresAt:        *txn.ExpiresAt,
	}, nil
}

type ReservationPaymentRequest struct {
	ReservationID uint            `validate:"required"`
	UserID        uint            `validate:"required"`
	Amount        decimal.Decimal `validate:"-"`
	Description   string
	DueDate       *time.Time
	ReturnURL     string
}

// CreateReservationPayment looks up the reservation, creates a payment tagged
// with a reservation context and flags the reservation as awaiting payment.
// The whole sequence is atomic: a failing reservation update rolls the
// payment back too.
func (e *Engine) CreateReservationPayment(ctx context.Context, db *gorm.DB, req ReservationPaymentRequest) (*PaymentIntent, error) {
	var intent *PaymentIntent
	err := db.Transaction(func(tx *gorm.DB) error {
		var r reservations.Reservation
		if err := tx.Preload("CommonArea").First(&r, req.ReservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		pctx, err := domain.NewReservationContext(r.ID, r.CommonAreaID, r.CommonArea.Name, r.StartDateTime, r.EndDateTime)
		if err != nil {
			return err
		}

		description := req.Description
		if description == "" {
			description = "Pago reserva " + r.CommonArea.Name
		}

		intent, err = e.CreatePayment(ctx, tx, CreatePaymentRequest{
			UserID:      req.UserID,
			Amount:      req.Amount,
			Description: description,
			Context:     pctx,
			ExpiresAt:   req.DueDate,
			ReturnURL:   req.ReturnURL,
		})
		if err != nil {
			return err
		}

		return tx.Model(&reservations.Reservation{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
			"requires_payment": true,
			"payment_amount":   req.Amount,
			"payment_status":   reservations.PaymentPending,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, err
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, fmt.Errorf("error creando pago de reserva: %w", err)
	}
	return intent, nil
}

type ConfirmPaymentRequest struct {
	GatewayReference string                   `validate:"required"`
	GatewayResponse  json.RawMessage          `validate:"-"`
	Status           domain.TransactionStatus `validate:"required,oneof=COMPLETED FAILED PENDING"`
}

// ConfirmPayment applies a gateway verdict. A COMPLETED verdict on a
// reservation-linked transaction cascades approval to the reservation: any
// reservation whose invoice clears is implicitly approved. The cascade is
// re-applied on repeated COMPLETED confirmations; there is no idempotency
// guard.
func (e *Engine) ConfirmPayment(ctx context.Context, db *gorm.DB, transactionID string, req ConfirmPaymentRequest) error {
	if err := e.validate.Struct(&req); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) {
			violations := make([]string, 0, len(ferrs))
			for _, fe := range ferrs {
				violations = append(violations, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
			}
			return &ValidationError{Violations: violations}
		}
		return err
	}

	var (
		txn          domain.Transaction
		shouldNotify bool
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&txn, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		var completedAt *time.Time
		if req.Status == domain.StatusCompleted {
			t := e.now()
			completedAt = &t
		}
		updates := map[string]interface{}{
			"status":            req.Status,
			"gateway_reference": req.GatewayReference,
			"gateway_response":  datatypes.JSON(req.GatewayResponse),
			"completed_at":      completedAt,
		}
		if err := tx.Model(&domain.Transaction{}).Where("id = ?", txn.ID).Updates(updates).Error; err != nil {
			return err
		}

		if req.Status != domain.StatusCompleted {
			return nil
		}

		pctx, err := domain.ParseContext(txn.Metadata)
		if err != nil {
			return err
		}
		if pctx.Type == domain.ContextReservation {
			if err := tx.Model(&reservations.Reservation{}).Where("id = ?", pctx.ReservationID).Updates(map[string]interface{}{
				"payment_status": reservations.PaymentCompleted,
				"status":         reservations.StatusApproved,
			}).Error; err != nil {
				return err
			}
		}

		settings, err := e.resolveSettings(tx)
		if err != nil {
			return err
		}
		shouldNotify = settings.NotifyOnPayment
		return nil
	})
	if err != nil {
		metrics.IncPayment("confirm", "error")
		if errors.Is(err, ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("error confirmando pago: %w", err)
	}

	metrics.IncPayment("confirm", strings.ToLower(string(req.Status)))
	e.log.Info("payment confirmed",
		zap.String("transaction_id", txn.ID),
		zap.String("status", string(req.Status)),
	)

	if shouldNotify && req.Status == domain.StatusCompleted && e.notifier != nil {
		ev := e.paymentEvent("payment.completed", &txn)
		if err := e.notifier.Send(ctx, ev); err != nil {
			e.log.Warn("notification send failed", zap.String("transaction_id", txn.ID), zap.Error(err))
		}
	}
	return nil
}

// TransactionStatusView is the narrow projection returned to status pollers.
type TransactionStatusView struct {
	Status           domain.TransactionStatus `json:"status"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         string                   `json:"currency"`
	Description      string                   `json:"description"`
	CreatedAt        time.Time                `json:"created_at"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	GatewayReference string                   `json:"gateway_reference"`
}

func (e *Engine) GetTransactionStatus(db *gorm.DB, transactionID string) (*TransactionStatusView, error) {
	var txn domain.Transaction
	if err := db.First(&txn, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("error consultando pago: %w", err)
	}
	return &TransactionStatusView{
		Status:           txn.Status,
		Amount:           txn.Amount,
		Currency:         txn.Currency,
		Description:      txn.Description,
		CreatedAt:        txn.CreatedAt,
		CompletedAt:      txn.CompletedAt,
		GatewayReference: txn.GatewayReference,
	}, nil
}

type RefundResult struct {
	RefundID string                   `json:"refund_id"`
	Status   domain.TransactionStatus `json:"status"`
}

// ProcessRefund records a refund as a negative-amount COMPLETED transaction
// linked to the original, and marks the original REFUNDED. The original is
// marked REFUNDED even on a partial refund; only one refund per transaction
// is possible because REFUNDED rows fail the status guard.
func (e *Engine) ProcessRefund(ctx context.Context, db *gorm.DB, transactionID string, amount *decimal.Decimal, reason string) (*RefundResult, error) {
	var refund domain.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var orig domain.Transaction
		if err := tx.First(&orig, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if orig.Status != domain.StatusCompleted {
			return ErrNotRefundable
		}

		refundAmount := orig.Amount
		refundType := "full"
		if amount != nil {
			refundAmount = *amount
			if refundAmount.LessThan(orig.Amount) {
				refundType = "partial"
			}
		}

		meta, err := domain.RefundContext(orig.ID, reason, refundType).JSON()
		if err != nil {
			return err
		}

		now := e.now()
		refund = domain.Transaction{
			ID:               domain.NewTransactionID(),
			UserID:           orig.UserID,
			Amount:           refundAmount.Neg(),
			Currency:         orig.Currency,
			Description:      "Reembolso: " + orig.Description,
			Status:           domain.StatusCompleted,
			GatewayID:        orig.GatewayID,
			MethodID:         orig.MethodID,
			GatewayReference: "REFUND-" + orig.GatewayReference,
			Metadata:         meta,
			CompletedAt:      &now,
			Attempts:         1,
		}
		if err := tx.Create(&refund).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Transaction{}).Where("id = ?", orig.ID).
			Update("status", domain.StatusRefunded).Error
	})
	if err != nil {
		metrics.IncPayment("refund", "error")
		if errors.Is(err, ErrTransactionNotFound) || errors.Is(err, ErrNotRefundable) {
			return nil, err
		}
		return nil, fmt.Errorf("error procesando reembolso: %w", err)
	}

	metrics.IncPayment("refund", "completed")
	e.log.Info("refund processed",
		zap.String("refund_id", refund.ID),
		zap.String("original_id", transactionID),
		zap.String("amount", refund.Amount.String()),
	)

	if e.notifier != nil {
		ev := e.paymentEvent("payment.refunded", &refund)
		if err := e.notifier.Send(ctx, ev); err != nil {
			e.log.Warn("notification send failed", zap.String("transaction_id", refund.ID), zap.Error(err))
		}
	}

	return &RefundResult{RefundID: refund.ID, Status: domain.StatusCompleted}, nil
}

// SweepExpired fails every PENDING transaction past its expiry. Run
// periodically per tenant schema.
func (e *Engine) SweepExpired(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.StatusPending, e.now()).
		Update("status", domain.StatusFailed)
	if res.Error != nil {
		return 0, fmt.Errorf("error expirando pagos: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		e.log.Info("expired pending payments failed", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

func (e *Engine) paymentEvent(eventType string, txn *domain.Transaction) notify.Event {
	return notify.Event{
		Type:          eventType,
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		Amount:        txn.Amount.String(),
		Currency:      txn.Currency,
		OccurredAt:    e.now(),
	}
}
