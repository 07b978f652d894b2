package users

import (
	"net/http"

	"armonia-backend/database"
	"armonia-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Lastname   string  `json:"lastname"`
	Tel        *string `json:"tel,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
}

type ComplexDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	TotalUnits int    `json:"total_units"`
}

type MeResponse struct {
	User    UserDTO     `json:"user"`
	Complex *ComplexDTO `json:"complex,omitempty"`
}

func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Complex").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := MeResponse{
		User: UserDTO{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Lastname:   user.Lastname,
			Tel:        stringPtrIfNotEmpty(user.Tel),
			Role:       user.Role,
			IsVerified: user.IsVerified,
		},
	}
	if user.Complex != nil {
		resp.Complex = &ComplexDTO{
			ID:         user.Complex.ID,
			Name:       user.Complex.Name,
			City:       user.Complex.City,
			TotalUnits: user.Complex.TotalUnits,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
