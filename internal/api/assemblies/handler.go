package assemblies

import (
	"net/http"
	"time"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/assemblies"
	"armonia-backend/internal/domain/inventory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /assemblies (complex admin)
func CreateAssembly(c *gin.Context) {
	var req struct {
		Title          string          `json:"title" binding:"required"`
		Description    string          `json:"description"`
		ScheduledAt    time.Time       `json:"scheduled_at" binding:"required"`
		RequiredQuorum decimal.Decimal `json:"required_quorum"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RequiredQuorum.IsZero() {
		req.RequiredQuorum = decimal.NewFromInt(50)
	}

	a := assemblies.Assembly{
		Title:          req.Title,
		Description:    req.Description,
		ScheduledAt:    req.ScheduledAt,
		Status:         assemblies.StatusScheduled,
		RequiredQuorum: req.RequiredQuorum,
	}
	if err := middleware.TenantDB(c).Create(&a).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assembly"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GET /assemblies
func ListAssemblies(c *gin.Context) {
	var list []assemblies.Assembly
	if err := middleware.TenantDB(c).Order("scheduled_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assemblies"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /assemblies/:id/items (complex admin)
func AddAgendaItem(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.TenantDB(c)
	var a assemblies.Assembly
	if err := db.First(&a, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assembly not found"})
		return
	}

	item := assemblies.AgendaItem{AssemblyID: a.ID, Topic: req.Topic}
	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agenda item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PUT /agenda-items/:id/voting (complex admin), opens or closes voting
func SetVotingOpen(c *gin.Context) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.TenantDB(c)
	res := db.Model(&assemblies.AgendaItem{}).Where("id = ?", c.Param("id")).Update("voting_open", req.Open)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agenda item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agenda item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voting_open": req.Open})
}

// POST /agenda-items/:id/votes
func CastVote(c *gin.Context) {
	var req struct {
		PropertyID uint                  `json:"property_id" binding:"required"`
		Choice     assemblies.VoteChoice `json:"choice" binding:"required,oneof=YES NO ABSTAIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.TenantDB(c)

	var item assemblies.AgendaItem
	if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agenda item not found"})
		return
	}
	if !item.VotingOpen {
		c.JSON(http.StatusConflict, gin.H{"error": "Voting is closed"})
		return
	}

	var property inventory.Property
	if err := db.First(&property, "id = ?", req.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	vote := assemblies.Vote{
		AgendaItemID: item.ID,
		PropertyID:   property.ID,
		Coefficient:  property.Coefficient,
		Choice:       req.Choice,
	}
	if err := db.Create(&vote).Error; err != nil {
		// unique index: one ballot per property per item
		c.JSON(http.StatusConflict, gin.H{"error": "Property already voted on this item"})
		return
	}
	c.JSON(http.StatusCreated, vote)
}

// GET /agenda-items/:id/tally, projection for clients polling live results
func GetTally(c *gin.Context) {
	db := middleware.TenantDB(c)

	var item assemblies.AgendaItem
	if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agenda item not found"})
		return
	}

	tally, err := BuildTally(db, item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tally"})
		return
	}
	c.JSON(http.StatusOK, tally)
}
