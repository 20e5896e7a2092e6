package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// findActiveOrder -> order pending/preparing terakhir untuk satu meja.
// Status "free" sebuah meja selalu diturunkan dari sini, tidak pernah dari
// boolean tersimpan yang bisa basi.
func (tc *TableController) findActiveOrder(tableNumber int) (*models.Order, error) {
	var order models.Order
	err := tc.DB.
		Where("table_number = ? AND status IN ?", tableNumber, models.ActiveOrderStatuses).
		Order("created_at desc").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// StartSession -> scan QR: terbitkan atau gabung sesi meja.
// Kalau meja free, selalu mint token baru; dua scan bersamaan sama-sama bisa
// mint dan hanya token terakhir yang tersimpan yang valid (last-writer-wins,
// perilaku yang memang dipertahankan). Kalau meja sedang ada order aktif,
// token yang sudah terikat dikembalikan apa adanya supaya teman semeja bisa
// ikut pesan lewat satu scan.
func (tc *TableController) StartSession(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	active, err := tc.findActiveOrder(tableNumber)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var token string
	if active == nil || table.SessionToken == nil {
		// Meja free, atau sedang busy tapi belum pernah punya token (edge
		// case data lama): mint dan bind token baru.
		token, err = utils.GenerateSessionToken()
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if err := tc.DB.Model(&table).Update("session_token", token).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.InfoLogger.Printf("Session issued for table %d", tableNumber)
	} else {
		token = *table.SessionToken
	}

	utils.RespondJSON(c, http.StatusOK, "Session started", gin.H{
		"session_token": token,
	})
}

// ValidateSession -> cek token sesi tanpa side effect.
func (tc *TableController) ValidateSession(c *gin.Context) {
	var req struct {
		TableNumber  int    `json:"table_number" binding:"required"`
		SessionToken string `json:"session_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", req.TableNumber).First(&table).Error; err != nil {
		utils.RespondJSON(c, http.StatusUnauthorized, "Session invalid", gin.H{"valid": false})
		return
	}

	if table.SessionToken == nil || !utils.SecureCompare(*table.SessionToken, req.SessionToken) {
		utils.RespondJSON(c, http.StatusUnauthorized, "Session invalid", gin.H{"valid": false})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session valid", gin.H{"valid": true})
}

// GetTableStatus -> info meja untuk customer yang baru scan.
func (tc *TableController) GetTableStatus(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	active, err := tc.findActiveOrder(tableNumber)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	status := "free"
	var activeOrderID *uint
	if active != nil {
		status = active.Status
		activeOrderID = &active.ID
	}

	utils.RespondJSON(c, http.StatusOK, "Table status", gin.H{
		"table_number": table.TableNumber,
		"is_available": active == nil,
		"active_order": activeOrderID,
		"status":       status,
	})
}

// CreateTable -> manager menambahkan meja baru.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.Table
	if err := tc.DB.Where("table_number = ?", req.TableNumber).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, ErrTableExists)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		QRCodeURL:   fmt.Sprintf("/table/%d", req.TableNumber),
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %d", table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> daftar semua meja (manager).
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// DeleteTable -> manager menghapus meja.
func (tc *TableController) DeleteTable(c *gin.Context) {
	idStr := c.Param("table_id")
	id, _ := strconv.Atoi(idStr)

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table removed", gin.H{"id": table.ID})
}
