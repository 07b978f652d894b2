package admin

import (
	"net/http"
	"time"

	"armonia-backend/database"
	"armonia-backend/internal/domain/billing"
	"armonia-backend/internal/domain/complexes"
	"armonia-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminUser struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Lastname    string  `json:"lastname"`
	Tel         string  `json:"tel"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	IsVerified  bool    `json:"is_verified"`
	ComplexName *string `json:"complex_name,omitempty"`
}

type ComplexStats struct {
	ComplexID     uint            `json:"complex_id"`
	Name          string          `json:"name"`
	SchemaName    string          `json:"schema_name"`
	Transactions  int64           `json:"transactions"`
	Completed     int64           `json:"completed"`
	Revenue       decimal.Decimal `json:"revenue"`
	RecentRevenue decimal.Decimal `json:"recent_revenue"`
}

type AdminStats struct {
	TotalUsers     int64          `json:"total_users"`
	TotalComplexes int64          `json:"total_complexes"`
	PerComplex     []ComplexStats `json:"per_complex"`
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard 👑",
	})
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	err := database.DB.Preload("Complex").Find(&all).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var adminUsers []AdminUser
	for _, u := range all {
		var complexName *string
		if u.Complex != nil {
			complexName = &u.Complex.Name
		}

		adminUsers = append(adminUsers, AdminUser{
			ID:          u.ID,
			Name:        u.Name,
			Lastname:    u.Lastname,
			Tel:         u.Tel,
			Email:       u.Email,
			Role:        u.Role,
			IsVerified:  u.IsVerified,
			ComplexName: complexName,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func ListComplexes(c *gin.Context) {
	var list []complexes.ResidentialComplex
	if err := database.DB.Order("name ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complexes"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetAdminStats aggregates payment volume across every tenant schema.
func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&complexes.ResidentialComplex{}).Count(&stats.TotalComplexes)

	var all []complexes.ResidentialComplex
	if err := database.DB.Order("id ASC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complexes"})
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	for _, rc := range all {
		tdb, err := database.Tenant(rc.SchemaName)
		if err != nil {
			continue
		}

		cs := ComplexStats{
			ComplexID:     rc.ID,
			Name:          rc.Name,
			SchemaName:    rc.SchemaName,
			Revenue:       decimal.Zero,
			RecentRevenue: decimal.Zero,
		}
		tdb.Model(&billing.Transaction{}).Count(&cs.Transactions)
		tdb.Model(&billing.Transaction{}).Where("status = ?", billing.StatusCompleted).Count(&cs.Completed)

		var revenue, recent decimal.NullDecimal
		tdb.Model(&billing.Transaction{}).
			Where("status = ? AND amount > 0", billing.StatusCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&revenue)
		tdb.Model(&billing.Transaction{}).
			Where("status = ? AND amount > 0 AND created_at >= ?", billing.StatusCompleted, thirtyDaysAgo).
			Select("COALESCE(SUM(amount), 0)").Scan(&recent)
		if revenue.Valid {
			cs.Revenue = revenue.Decimal
		}
		if recent.Valid {
			cs.RecentRevenue = recent.Decimal
		}

		stats.PerComplex = append(stats.PerComplex, cs)
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.Preload("Complex").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
