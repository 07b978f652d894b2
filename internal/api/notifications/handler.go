package notifications

import (
	"net/http"
	"time"

	"armonia-backend/internal/infra/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Sender notify.Sender
	Log    *zap.Logger
}

func NewHandler(sender notify.Sender, log *zap.Logger) *Handler {
	return &Handler{Sender: sender, Log: log}
}

// POST /notifications — queue an announcement for the complex. Delivery to
// push/SMS providers happens downstream off the published event.
func (h *Handler) Schedule(c *gin.Context) {
	var req struct {
		Title  string     `json:"title" binding:"required"`
		Body   string     `json:"body" binding:"required"`
		UserID *uint      `json:"user_id"`
		SendAt *time.Time `json:"send_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schema := c.GetString("schema_name")
	ev := notify.Event{
		Type:       "announcement.scheduled",
		Schema:     schema,
		OccurredAt: time.Now(),
	}
	if req.UserID != nil {
		ev.UserID = *req.UserID
	}

	if err := h.Sender.Send(c.Request.Context(), ev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	h.Log.Info("announcement scheduled",
		zap.String("schema", schema),
		zap.String("title", req.Title),
	)
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}
