package security

import (
	"net/http"
	"time"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/security"

	"github.com/gin-gonic/gin"
)

// POST /security/incidents (reception / complex admin)
func CreateIncident(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Shift       string     `json:"shift"`
		Severity    string     `json:"severity"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		OccurredAt  *time.Time `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Severity == "" {
		req.Severity = "LOW"
	}
	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	entry := security.IncidentLog{
		ReportedByID: userID,
		Shift:        req.Shift,
		Severity:     req.Severity,
		Title:        req.Title,
		Description:  req.Description,
		OccurredAt:   occurredAt,
	}
	if err := middleware.TenantDB(c).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incident"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GET /security/incidents
func ListIncidents(c *gin.Context) {
	query := middleware.TenantDB(c).Order("occurred_at DESC")
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}

	var list []security.IncidentLog
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load incidents"})
		return
	}
	c.JSON(http.StatusOK, list)
}
