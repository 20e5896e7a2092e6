package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/controllers"
)

func setupUserRouter(db *gorm.DB, actorID uint) *gin.Engine {
	router := gin.New()
	userCtrl := controllers.NewUserController(db)
	router.POST("/api/auth/login", userCtrl.Login)

	manager := router.Group("/")
	manager.Use(func(c *gin.Context) {
		c.Set("user_id", actorID)
		c.Next()
	})
	manager.POST("/api/users", userCtrl.CreateUser)
	manager.DELETE("/api/users/:user_id", userCtrl.DeleteUser)
	return router
}

func createUser(t *testing.T, router *gin.Engine, email, role string) uint {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/users", map[string]interface{}{
		"full_name": "Test Staff",
		"email":     email,
		"password":  "rahasia123",
		"role":      role,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, 1)

	createUser(t, router, "chef@example.com", "kitchen")

	w := doJSON(t, router, "POST", "/api/auth/login", map[string]string{
		"email":    "chef@example.com",
		"password": "rahasia123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "kitchen", data["role"])
	assert.NotEmpty(t, data["token"])

	// Password salah -> 401, pesan tidak membedakan email/password.
	w = doJSON(t, router, "POST", "/api/auth/login", map[string]string{
		"email":    "chef@example.com",
		"password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decodeResponse(t, w)["message"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, 1)

	createUser(t, router, "chef@example.com", "kitchen")

	w := doJSON(t, router, "POST", "/api/users", map[string]interface{}{
		"full_name": "Test Staff",
		"email":     "chef@example.com",
		"password":  "rahasia123",
		"role":      "kitchen",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCannotDeleteSelf(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db, 1)

	id := createUser(t, router, "manager@example.com", "manager")
	assert.Equal(t, uint(1), id)

	w := doJSON(t, router, "DELETE", "/api/users/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
