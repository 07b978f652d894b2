package billing

import (
	"errors"
	"net/http"
	"strconv"

	"armonia-backend/internal/app/http/middleware"
	engine "armonia-backend/internal/billing"
	domain "armonia-backend/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{Engine: e}
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func respondEngineError(c *gin.Context, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment request", "violations": verr.Violations})
	case errors.Is(err, engine.ErrTransactionNotFound),
		errors.Is(err, engine.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNoGateway),
		errors.Is(err, engine.ErrNoPaymentMethod),
		errors.Is(err, engine.ErrNotRefundable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment operation failed"})
	}
}

// POST /payments
func (h *Handler) CreatePayment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.Engine.CreatePayment(c.Request.Context(), middleware.TenantDB(c), engine.CreatePaymentRequest{
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		MethodID:    req.MethodID,
		ReturnURL:   req.ReturnURL,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// POST /payments/:id/confirm
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Engine.ConfirmPayment(c.Request.Context(), middleware.TenantDB(c), c.Param("id"), engine.ConfirmPaymentRequest{
		GatewayReference: req.GatewayReference,
		GatewayResponse:  req.GatewayResponse,
		Status:           req.Status,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

// GET /payments/:id
func (h *Handler) GetTransactionStatus(c *gin.Context) {
	view, err := h.Engine.GetTransactionStatus(middleware.TenantDB(c), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /payments/:id/refund
func (h *Handler) ProcessRefund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Engine.ProcessRefund(c.Request.Context(), middleware.TenantDB(c), c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// POST /reservations/:id/pay
func (h *Handler) CreateReservationPayment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	var req reservationPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.Engine.CreateReservationPayment(c.Request.Context(), middleware.TenantDB(c), engine.ReservationPaymentRequest{
		ReservationID: uint(reservationID),
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
		DueDate:       req.DueDate,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// GET /payments
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var transactions []domain.Transaction
	if err := middleware.TenantDB(c).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}
