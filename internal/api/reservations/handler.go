package reservations

import (
	"net/http"
	"time"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/reservations"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GET /common-areas
func ListCommonAreas(c *gin.Context) {
	var areas []reservations.CommonArea
	if err := middleware.TenantDB(c).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&areas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load common areas"})
		return
	}
	c.JSON(http.StatusOK, areas)
}

// POST /common-areas (complex admin)
func CreateCommonArea(c *gin.Context) {
	var req struct {
		Name            string          `json:"name" binding:"required"`
		Description     string          `json:"description"`
		Capacity        int             `json:"capacity"`
		FeeAmount       decimal.Decimal `json:"fee_amount"`
		RequiresPayment bool            `json:"requires_payment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area := reservations.CommonArea{
		Name:            req.Name,
		Description:     req.Description,
		Capacity:        req.Capacity,
		FeeAmount:       req.FeeAmount,
		RequiresPayment: req.RequiresPayment,
		IsActive:        true,
	}
	if err := middleware.TenantDB(c).Create(&area).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create common area"})
		return
	}
	c.JSON(http.StatusCreated, area)
}

// POST /reservations
func CreateReservation(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		CommonAreaID  uint      `json:"common_area_id" binding:"required"`
		PropertyID    *uint     `json:"property_id"`
		StartDateTime time.Time `json:"start_date_time" binding:"required"`
		EndDateTime   time.Time `json:"end_date_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.EndDateTime.After(req.StartDateTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End must be after start"})
		return
	}

	db := middleware.TenantDB(c)

	var area reservations.CommonArea
	if err := db.First(&area, "id = ? AND is_active = ?", req.CommonAreaID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Common area not found"})
		return
	}

	// reject overlapping reservations for the same area
	var overlapping int64
	if err := db.Model(&reservations.Reservation{}).
		Where("common_area_id = ? AND status IN ?", area.ID,
			[]reservations.ReservationStatus{reservations.StatusPending, reservations.StatusApproved}).
		Where("start_date_time < ? AND end_date_time > ?", req.EndDateTime, req.StartDateTime).
		Count(&overlapping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}
	if overlapping > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Time slot already reserved"})
		return
	}

	r := reservations.Reservation{
		CommonAreaID:    area.ID,
		PropertyID:      req.PropertyID,
		UserID:          userID,
		StartDateTime:   req.StartDateTime,
		EndDateTime:     req.EndDateTime,
		Status:          reservations.StatusPending,
		RequiresPayment: area.RequiresPayment,
		PaymentStatus:   reservations.PaymentNone,
	}
	if err := db.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GET /reservations
func ListReservations(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := middleware.TenantDB(c).Preload("CommonArea").Order("start_date_time DESC")
	if c.GetString("role") == "RESIDENT" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var list []reservations.Reservation
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /reservations/:id/cancel
func CancelReservation(c *gin.Context) {
	userID := c.GetUint("user_id")
	db := middleware.TenantDB(c)

	var r reservations.Reservation
	if err := db.First(&r, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}
	if r.UserID != userID && c.GetString("role") == "RESIDENT" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your reservation"})
		return
	}
	if r.Status == reservations.StatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "Already cancelled"})
		return
	}

	if err := db.Model(&r).Update("status", reservations.StatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// POST /reservations/:id/decide (complex admin)
func DecideReservation(c *gin.Context) {
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.TenantDB(c)
	var r reservations.Reservation
	if err := db.First(&r, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	status := reservations.StatusRejected
	if req.Approve {
		status = reservations.StatusApproved
	}
	if err := db.Model(&r).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}
