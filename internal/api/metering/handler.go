package metering

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"armonia-backend/internal/app/http/middleware"
	engine "armonia-backend/internal/billing"
	"armonia-backend/internal/domain/metering"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	Engine *engine.Engine
}

func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{Engine: eng}
}

// POST /metering/meters (complex admin)
func (h *Handler) RegisterMeter(c *gin.Context) {
	var req struct {
		PropertyID   uint   `json:"property_id" binding:"required"`
		Type         string `json:"type" binding:"required,oneof=WATER GAS ENERGY"`
		SerialNumber string `json:"serial_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meter := metering.Meter{
		PropertyID:   req.PropertyID,
		Type:         metering.MeterType(req.Type),
		SerialNumber: req.SerialNumber,
		IsActive:     true,
	}
	if err := middleware.TenantDB(c).Create(&meter).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Serial number may already exist"})
		return
	}
	c.JSON(http.StatusCreated, meter)
}

// POST /metering/readings
func (h *Handler) CreateReading(c *gin.Context) {
	var req struct {
		MeterID uint            `json:"meter_id" binding:"required"`
		Value   decimal.Decimal `json:"value" binding:"required"`
		ReadAt  *time.Time      `json:"read_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	readAt := time.Now()
	if req.ReadAt != nil {
		readAt = *req.ReadAt
	}

	reading, err := IngestReading(middleware.TenantDB(c), req.MeterID, req.Value, readAt)
	switch {
	case errors.Is(err, ErrMeterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meter not found"})
	case errors.Is(err, ErrNegativeConsumption):
		c.JSON(http.StatusConflict, gin.H{"error": "Reading is below the previous value"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reading"})
	default:
		c.JSON(http.StatusCreated, reading)
	}
}

// GET /metering/readings?meter_id=&processed=
func (h *Handler) ListReadings(c *gin.Context) {
	query := middleware.TenantDB(c).Order("read_at DESC")
	if meterID := c.Query("meter_id"); meterID != "" {
		query = query.Where("meter_id = ?", meterID)
	}
	if processed := c.Query("processed"); processed != "" {
		flag, err := strconv.ParseBool(processed)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "processed must be a boolean"})
			return
		}
		query = query.Where("processed = ?", flag)
	}

	var list []metering.Reading
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load readings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /metering/rates (complex admin)
func (h *Handler) CreateRate(c *gin.Context) {
	var req struct {
		Type         string          `json:"type" binding:"required,oneof=WATER GAS ENERGY"`
		PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.PricePerUnit.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_per_unit must be positive"})
		return
	}

	db := middleware.TenantDB(c)
	rate := metering.UtilityRate{
		Type:         metering.MeterType(req.Type),
		PricePerUnit: req.PricePerUnit,
		IsActive:     true,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&metering.UtilityRate{}).
			Where("type = ? AND is_active = ?", rate.Type, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&rate).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rate"})
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// POST /metering/billing (complex admin)
func (h *Handler) GenerateBilling(c *gin.Context) {
	var req struct {
		From time.Time `json:"from" binding:"required"`
		To   time.Time `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.To.After(req.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
		return
	}

	bills, err := GenerateBilling(c.Request.Context(), middleware.TenantDB(c), h.Engine, req.From, req.To)
	if err != nil {
		if errors.Is(err, ErrNoActiveRate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate billing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills)})
}

// POST /metering/readings/process (complex admin)
func (h *Handler) ProcessPending(c *gin.Context) {
	n, err := ProcessPendingReadings(middleware.TenantDB(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": n})
}
