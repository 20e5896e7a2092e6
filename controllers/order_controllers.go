package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/events"
	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/utils"
)

type OrderController struct {
	DB        *gorm.DB
	Publisher events.Publisher
}

func NewOrderController(db *gorm.DB, publisher events.Publisher) *OrderController {
	return &OrderController{DB: db, Publisher: publisher}
}

// tableLocks menserialisasi placement per meja. Cek "ada order aktif?" dan
// insert order adalah check-then-act; tanpa lock ini dua request bersamaan
// bisa sama-sama lolos cek lalu sama-sama tersimpan.
var tableLocks sync.Map

func lockTable(tableNumber int) *sync.Mutex {
	v, _ := tableLocks.LoadOrStore(tableNumber, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// PlaceOrder -> customer submit pesanan untuk satu meja.
// Harga selalu diambil dari katalog, tidak pernah dari payload client, dan
// satu meja hanya boleh punya satu order pending/preparing.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	type itemReq struct {
		MenuItemID          uint                    `json:"menu_item_id" binding:"required"`
		Quantity            int                     `json:"quantity" binding:"required,min=1"`
		SelectedOptions     []models.SelectedOption `json:"selected_options"`
		SpecialInstructions string                  `json:"special_instructions"`
	}
	var req struct {
		TableNumber   int       `json:"table_number" binding:"required"`
		Items         []itemReq `json:"items" binding:"dive"`
		CustomerNotes string    `json:"customer_notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := oc.DB.Where("table_number = ?", req.TableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table not found"))
		return
	}

	// Serialisasi cek + insert untuk meja ini.
	mu := lockTable(req.TableNumber)
	defer mu.Unlock()

	var activeCount int64
	if err := oc.DB.Model(&models.Order{}).
		Where("table_number = ? AND status IN ?", req.TableNumber, models.ActiveOrderStatuses).
		Count(&activeCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if activeCount > 0 {
		utils.RespondError(c, http.StatusConflict, ErrActiveOrder)
		return
	}

	if len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrNoOrderItems)
		return
	}

	// Semua line divalidasi dan disimpan dalam satu transaksi; satu item
	// gagal berarti tidak ada order sama sekali.
	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		orderItems := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			var menuItem models.MenuItem
			if err := tx.Where("id = ? AND deleted_at IS NULL", item.MenuItemID).
				First(&menuItem).Error; err != nil {
				return &statusError{http.StatusNotFound, fmt.Errorf("item not found: %d", item.MenuItemID)}
			}
			if !menuItem.IsAvailable {
				return &statusError{http.StatusBadRequest, fmt.Errorf("item unavailable: %s", menuItem.Name)}
			}

			orderItems = append(orderItems, models.OrderItem{
				MenuItemID:          menuItem.ID,
				Name:                menuItem.Name,
				Quantity:            item.Quantity,
				Price:               menuItem.Price,
				SelectedOptions:     item.SelectedOptions,
				SpecialInstructions: item.SpecialInstructions,
			})
			total += menuItem.Price * float64(item.Quantity)
		}

		order = models.Order{
			TableID:       table.ID,
			TableNumber:   req.TableNumber,
			Items:         orderItems,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			CustomerNotes: req.CustomerNotes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Pointer bantu di meja, bukan sumber kebenaran invariant.
		return tx.Model(&models.Table{}).Where("id = ?", table.ID).
			Update("current_order_id", order.ID).Error
	})
	if err != nil {
		if se, ok := err.(*statusError); ok {
			utils.RespondError(c, se.Code, se.Err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	oc.publish(events.Message{Event: events.EventNewOrder, Data: order})

	utils.InfoLogger.Printf("Order %d created for table %d (total=%.2f)", order.ID, order.TableNumber, order.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order (customer cek status pesanannya).
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrders -> list order terbaru untuk layar dapur.
func (oc *OrderController) GetOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Order("created_at desc").
		Limit(50).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus -> dapur menggerakkan order lewat state machine.
// pending -> preparing -> ready, dengan ready juga boleh langsung dari
// pending. Cancel dari pending/preparing menghapus record sepenuhnya;
// order yang sudah ready tidak bisa diubah lagi.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	now := time.Now()

	switch req.Status {
	case models.OrderStatusCancelled:
		if !order.IsActive() {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("cannot cancel order in status %s", order.Status))
			return
		}

		err := oc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
				return err
			}
			return tx.Model(&models.Table{}).
				Where("id = ? AND current_order_id = ?", order.TableID, order.ID).
				Update("current_order_id", nil).Error
		})
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		oc.publish(events.Message{
			Event: events.EventOrderCancelled,
			Data: events.OrderStatusEvent{
				OrderID:     order.ID,
				TableNumber: order.TableNumber,
				Status:      models.OrderStatusCancelled,
			},
		})

		utils.InfoLogger.Printf("Order %d cancelled and removed (table %d)", order.ID, order.TableNumber)
		utils.RespondJSON(c, http.StatusOK, "Order cancelled and removed", gin.H{
			"order_id":     order.ID,
			"table_number": order.TableNumber,
		})
		return

	case models.OrderStatusPreparing:
		if order.Status != models.OrderStatusPending {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("invalid transition: %s -> preparing", order.Status))
			return
		}
		order.Status = models.OrderStatusPreparing
		order.StartedAt = &now
		oc.recordActor(c, &order)

		if err := oc.DB.Save(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		oc.publish(events.Message{
			Event: events.EventOrderStarted,
			Data: events.OrderStatusEvent{
				OrderID:     order.ID,
				TableNumber: order.TableNumber,
				Status:      order.Status,
			},
		})

		utils.RespondJSON(c, http.StatusOK, "Order updated", order)
		return

	case models.OrderStatusReady:
		if !order.IsActive() {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("invalid transition: %s -> ready", order.Status))
			return
		}
		order.Status = models.OrderStatusReady
		order.ReadyAt = &now
		oc.recordActor(c, &order)

		err := oc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			// Meja selesai dipakai: lepaskan pointer dan catat kapan.
			return tx.Model(&models.Table{}).
				Where("id = ? AND current_order_id = ?", order.TableID, order.ID).
				Updates(map[string]interface{}{
					"current_order_id":        nil,
					"last_order_completed_at": now,
				}).Error
		})
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		oc.publish(events.Message{
			Event: events.EventOrderReady,
			Data: events.OrderStatusEvent{
				OrderID:     order.ID,
				TableNumber: order.TableNumber,
				Status:      order.Status,
			},
		})

		utils.RespondJSON(c, http.StatusOK, "Order updated", order)
		return

	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status: %s", req.Status))
	}
}

// GetOrderHistory -> riwayat order untuk manager, dengan pagination.
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := oc.DB.Model(&models.Order{}).Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("KitchenStaff").
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	utils.RespondJSON(c, http.StatusOK, "Order history", gin.H{
		"orders": orders,
		"page":   page,
		"pages":  pages,
		"total":  total,
	})
}

// recordActor mencatat staff dapur pertama yang menggerakkan order.
func (oc *OrderController) recordActor(c *gin.Context, order *models.Order) {
	if order.KitchenStaffID != nil {
		return
	}
	if v, ok := c.Get("user_id"); ok {
		if userID, ok := v.(uint); ok {
			order.KitchenStaffID = &userID
		}
	}
}

// publish -> best-effort; kegagalan notifikasi tidak pernah membatalkan
// perubahan state yang sudah committed.
func (oc *OrderController) publish(msg events.Message) {
	if oc.Publisher == nil {
		return
	}
	oc.Publisher.Publish(msg)
}

// statusError membawa HTTP status keluar dari callback transaksi.
type statusError struct {
	Code int
	Err  error
}

func (e *statusError) Error() string {
	return e.Err.Error()
}
