package documents

import (
	"net/http"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/documents"

	"github.com/gin-gonic/gin"
)

// POST /documents (complex admin)
func CreateDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		Type      string `json:"type"`
		URL       string `json:"url" binding:"required,url"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "OTHER"
	}

	doc := documents.Document{
		Name:         req.Name,
		Type:         req.Type,
		URL:          req.URL,
		SizeBytes:    req.SizeBytes,
		UploadedByID: userID,
	}
	if err := middleware.TenantDB(c).Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// GET /documents
func ListDocuments(c *gin.Context) {
	query := middleware.TenantDB(c).Order("created_at DESC")
	if docType := c.Query("type"); docType != "" {
		query = query.Where("type = ?", docType)
	}

	var list []documents.Document
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// DELETE /documents/:id (complex admin)
func DeleteDocument(c *gin.Context) {
	res := middleware.TenantDB(c).Delete(&documents.Document{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
