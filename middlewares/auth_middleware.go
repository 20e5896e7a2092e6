package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

// AuthMiddleware memvalidasi Bearer token lalu menaruh user_id dan role di
// context untuk handler berikutnya.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ManagerOnly -> hanya manager.
func ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleManager {
			utils.RespondError(c, http.StatusForbidden, errors.New("manager access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KitchenOnly -> kitchen staff atau manager.
func KitchenOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleKitchen && role != models.RoleManager {
			utils.RespondError(c, http.StatusForbidden, errors.New("kitchen access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
