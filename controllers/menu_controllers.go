package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenuItems -> menu untuk customer (tanpa item yang di-soft-delete).
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Where("deleted_at IS NULL").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuItemByID -> detail 1 item
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND deleted_at IS NULL", id).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem -> manager menambahkan item katalog.
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		Name        string              `json:"name" binding:"required"`
		Description string              `json:"description"`
		Price       float64             `json:"price" binding:"required,gt=0"`
		Category    string              `json:"category" binding:"required"`
		Options     []models.MenuOption `json:"options"`
		ImageURL    *string             `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Options:     req.Options,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
		IsActive:    true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (price=%.2f)", item.Name, item.Price)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> manager mengubah item; field yang kosong dibiarkan.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND deleted_at IS NULL", id).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item not found"))
		return
	}

	var req struct {
		Name        *string             `json:"name"`
		Description *string             `json:"description"`
		Price       *float64            `json:"price"`
		Category    *string             `json:"category"`
		Options     []models.MenuOption `json:"options"`
		ImageURL    *string             `json:"image_url"`
		IsAvailable *bool               `json:"is_available"`
		IsActive    *bool               `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Options != nil {
		item.Options = req.Options
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> soft delete; order lama tetap memegang snapshot harga.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND deleted_at IS NULL", id).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item not found"))
		return
	}

	now := time.Now()
	item.DeletedAt = &now
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item removed", gin.H{"id": item.ID})
}

// ToggleAvailability -> dapur menandai item sold out / tersedia lagi.
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND deleted_at IS NULL", id).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("menu item not found"))
		return
	}

	item.IsAvailable = *req.IsAvailable
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", item)
}
