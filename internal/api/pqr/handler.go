package pqr

import (
	"net/http"
	"time"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/pqr"

	"github.com/gin-gonic/gin"
)

// POST /pqr
func CreateTicket(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Category    pqr.Category `json:"category" binding:"required"`
		Priority    string       `json:"priority"`
		Subject     string       `json:"subject" binding:"required"`
		Description string       `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Priority == "" {
		req.Priority = "MEDIUM"
	}

	ticket := pqr.Ticket{
		UserID:      userID,
		Category:    req.Category,
		Priority:    req.Priority,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      pqr.StatusOpen,
		SLAHours:    req.Category.SLAHours(),
	}
	if err := middleware.TenantDB(c).Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GET /pqr
func ListTickets(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := middleware.TenantDB(c).Order("created_at DESC")
	if c.GetString("role") == "RESIDENT" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var tickets []pqr.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tickets"})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// PUT /pqr/:id/status (complex admin / reception)
func UpdateTicketStatus(c *gin.Context) {
	var req struct {
		Status       pqr.TicketStatus `json:"status" binding:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
		AssignedToID *uint            `json:"assigned_to_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.TenantDB(c)
	var ticket pqr.Ticket
	if err := db.First(&ticket, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.AssignedToID != nil {
		updates["assigned_to_id"] = *req.AssignedToID
	}
	if req.Status == pqr.StatusResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		updates["resolved_at"] = &now
	}

	if err := db.Model(&ticket).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(req.Status)})
}

// GET /pqr/report (complex admin)
func GetReport(c *gin.Context) {
	report, err := BuildReport(middleware.TenantDB(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}
