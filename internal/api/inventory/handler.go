package inventory

import (
	"net/http"

	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/inventory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /properties (complex admin)
func CreateProperty(c *gin.Context) {
	var req struct {
		UnitNumber  string          `json:"unit_number" binding:"required"`
		Type        string          `json:"type"`
		Coefficient decimal.Decimal `json:"coefficient"`
		OwnerID     *uint           `json:"owner_id"`
		AreaM2      float64         `json:"area_m2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "APARTMENT"
	}

	p := inventory.Property{
		UnitNumber:  req.UnitNumber,
		Type:        req.Type,
		Coefficient: req.Coefficient,
		OwnerID:     req.OwnerID,
		AreaM2:      req.AreaM2,
	}
	if err := middleware.TenantDB(c).Create(&p).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Unit number may already exist"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /properties
func ListProperties(c *gin.Context) {
	var list []inventory.Property
	if err := middleware.TenantDB(c).Order("unit_number ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /properties/:id (complex admin)
func UpdateProperty(c *gin.Context) {
	var req struct {
		Type       *string  `json:"type"`
		OwnerID    *uint    `json:"owner_id"`
		AreaM2     *float64 `json:"area_m2"`
		IsOccupied *bool    `json:"is_occupied"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.OwnerID != nil {
		updates["owner_id"] = *req.OwnerID
	}
	if req.AreaM2 != nil {
		updates["area_m2"] = *req.AreaM2
	}
	if req.IsOccupied != nil {
		updates["is_occupied"] = *req.IsOccupied
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	res := middleware.TenantDB(c).Model(&inventory.Property{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// POST /residents
func CreateResident(c *gin.Context) {
	var req struct {
		PropertyID uint   `json:"property_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		IsOwner    bool   `json:"is_owner"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r := inventory.Resident{
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		IsOwner:    req.IsOwner,
	}
	if err := middleware.TenantDB(c).Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resident"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GET /residents
func ListResidents(c *gin.Context) {
	query := middleware.TenantDB(c).Order("name ASC")
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}
	var list []inventory.Resident
	if err := query.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load residents"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /vehicles
func CreateVehicle(c *gin.Context) {
	var req struct {
		PropertyID uint   `json:"property_id" binding:"required"`
		Plate      string `json:"plate" binding:"required"`
		Type       string `json:"type"`
		Color      string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "CAR"
	}

	v := inventory.Vehicle{PropertyID: req.PropertyID, Plate: req.Plate, Type: req.Type, Color: req.Color}
	if err := middleware.TenantDB(c).Create(&v).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Plate may already exist"})
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GET /vehicles
func ListVehicles(c *gin.Context) {
	var list []inventory.Vehicle
	if err := middleware.TenantDB(c).Order("plate ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vehicles"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /pets
func CreatePet(c *gin.Context) {
	var req struct {
		PropertyID uint   `json:"property_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Species    string `json:"species"`
		Breed      string `json:"breed"`
		Vaccinated bool   `json:"vaccinated"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := inventory.Pet{PropertyID: req.PropertyID, Name: req.Name, Species: req.Species, Breed: req.Breed, Vaccinated: req.Vaccinated}
	if err := middleware.TenantDB(c).Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pet"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /pets
func ListPets(c *gin.Context) {
	var list []inventory.Pet
	if err := middleware.TenantDB(c).Order("name ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pets"})
		return
	}
	c.JSON(http.StatusOK, list)
}
