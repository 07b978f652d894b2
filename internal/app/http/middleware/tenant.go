package middleware

import (
	"net/http"

	"armonia-backend/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const tenantDBKey = "tenant_db"

// TenantScope resolves the schema name carried by the token into a
// schema-scoped gorm handle. Must run after AuthMiddleware.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		schemaName := c.GetString("schema_name")
		if schemaName == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "No tenant schema in token"})
			c.Abort()
			return
		}

		db, err := database.Tenant(schemaName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tenant"})
			c.Abort()
			return
		}

		c.Set(tenantDBKey, db)
		c.Next()
	}
}

// TenantDB fetches the schema-scoped handle set by TenantScope.
func TenantDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(tenantDBKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}
