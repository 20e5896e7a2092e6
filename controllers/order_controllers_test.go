package controllers_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/controllers"
	"github.com/yeremiapane/table-order/events"
	"github.com/yeremiapane/table-order/models"
)

// setupOrderRouter meniru wiring production tapi tanpa auth middleware;
// user_id kitchen staff di-inject langsung ke context.
func setupOrderRouter(db *gorm.DB, pub events.Publisher, staffID uint) *gin.Engine {
	router := gin.New()
	orderCtrl := controllers.NewOrderController(db, pub)

	router.POST("/api/orders", orderCtrl.PlaceOrder)
	router.GET("/api/orders/:order_id", orderCtrl.GetOrderByID)

	kitchen := router.Group("/")
	kitchen.Use(func(c *gin.Context) {
		c.Set("user_id", staffID)
		c.Set("role", models.RoleKitchen)
		c.Next()
	})
	kitchen.PATCH("/api/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	return router
}

func placePayload(tableNumber int, menuItemID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"table_number": tableNumber,
		"items": []map[string]interface{}{
			{"menu_item_id": menuItemID, "quantity": quantity},
		},
	}
}

func TestPlaceOrderTableNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	w := doJSON(t, router, "POST", "/api/orders", placePayload(99, 1, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	w := doJSON(t, router, "POST", "/api/orders", map[string]interface{}{
		"table_number": 5,
		"items":        []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no order items", decodeResponse(t, w)["message"])
}

func TestPlaceOrderUnavailableItem(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	ok := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	soldOut := seedMenuItem(t, db, "Burger Royal", 25, false)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	w := doJSON(t, router, "POST", "/api/orders", map[string]interface{}{
		"table_number": 5,
		"items": []map[string]interface{}{
			{"menu_item_id": ok.ID, "quantity": 1},
			{"menu_item_id": soldOut.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// All-or-nothing: tidak boleh ada order maupun item yang tersimpan.
	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
}

func TestPlaceOrderUsesCatalogPrice(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	// Client mencoba menyelundupkan harga sendiri; field itu harus diabaikan.
	w := doJSON(t, router, "POST", "/api/orders", map[string]interface{}{
		"table_number": 5,
		"items": []map[string]interface{}{
			{"menu_item_id": item.ID, "quantity": 2, "price": 0.01},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(60), data["total_amount"])
	assert.Equal(t, "pending", data["status"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, float64(30), line["price"])
	assert.Equal(t, "Pizza Margherita", line["name"])
}

func TestPlaceOrderConflict(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	w := doJSON(t, router, "POST", "/api/orders", placePayload(5, item.ID, 1))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/api/orders", placePayload(5, item.ID, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestPlaceOrderConcurrent memastikan invariant satu order aktif per meja
// tetap berlaku saat banyak request masuk bersamaan.
func TestPlaceOrderConcurrent(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := doJSON(t, router, "POST", "/api/orders", placePayload(5, item.ID, 1))
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicted)

	var activeCount int64
	db.Model(&models.Order{}).
		Where("table_number = ? AND status IN ?", 5, models.ActiveOrderStatuses).
		Count(&activeCount)
	assert.Equal(t, int64(1), activeCount)
}

func createOrder(t *testing.T, router *gin.Engine, tableNumber int, menuItemID uint) uint {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/orders", placePayload(tableNumber, menuItemID, 2))
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	pub := &capturePublisher{}
	router := setupOrderRouter(db, pub, 7)

	orderID := createOrder(t, router, 5, item.ID)
	statusURL := fmt.Sprintf("/api/orders/%d/status", orderID)

	// pending -> preparing: start time + staff tercatat
	w := doJSON(t, router, "PATCH", statusURL, map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.NotNil(t, order.StartedAt)
	if assert.NotNil(t, order.KitchenStaffID) {
		assert.Equal(t, uint(7), *order.KitchenStaffID)
	}

	// preparing -> ready: ready time >= start time
	w = doJSON(t, router, "PATCH", statusURL, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusReady, order.Status)
	if assert.NotNil(t, order.ReadyAt) && assert.NotNil(t, order.StartedAt) {
		assert.False(t, order.ReadyAt.Before(*order.StartedAt))
	}

	// ready bersifat terminal
	w = doJSON(t, router, "PATCH", statusURL, map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PATCH", statusURL, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{"new_order", "order_started", "order_ready"}, pub.Events())
}

// Ready boleh dicapai langsung dari pending, tanpa lewat preparing.
func TestReadyDirectFromPending(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	orderID := createOrder(t, router, 5, item.ID)

	w := doJSON(t, router, "PATCH", fmt.Sprintf("/api/orders/%d/status", orderID),
		map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusReady, order.Status)
	assert.NotNil(t, order.ReadyAt)
}

func TestCancelDeletesOrder(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	pub := &capturePublisher{}
	router := setupOrderRouter(db, pub, 1)

	orderID := createOrder(t, router, 5, item.ID)

	w := doJSON(t, router, "PATCH", fmt.Sprintf("/api/orders/%d/status", orderID),
		map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Record terhapus total, bukan diarsip.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var itemCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)

	// Event cancel membawa id lama + nomor meja.
	last := pub.Last()
	assert.Equal(t, events.EventOrderCancelled, last.Event)
	payload := last.Data.(events.OrderStatusEvent)
	assert.Equal(t, orderID, payload.OrderID)
	assert.Equal(t, 5, payload.TableNumber)

	// Meja langsung bisa dipakai lagi.
	w = doJSON(t, router, "POST", "/api/orders", placePayload(5, item.ID, 1))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCancelMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	w := doJSON(t, router, "PATCH", "/api/orders/42/status", map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	orderID := createOrder(t, router, 5, item.ID)

	w := doJSON(t, router, "PATCH", fmt.Sprintf("/api/orders/%d/status", orderID),
		map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadyFreesTable(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 5)
	item := seedMenuItem(t, db, "Pizza Margherita", 30, true)
	router := setupOrderRouter(db, &capturePublisher{}, 1)

	orderID := createOrder(t, router, 5, item.ID)

	var before models.Table
	assert.NoError(t, db.First(&before, table.ID).Error)
	if assert.NotNil(t, before.CurrentOrderID) {
		assert.Equal(t, orderID, *before.CurrentOrderID)
	}

	start := time.Now()
	w := doJSON(t, router, "PATCH", fmt.Sprintf("/api/orders/%d/status", orderID),
		map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusOK, w.Code)

	var after models.Table
	assert.NoError(t, db.First(&after, table.ID).Error)
	assert.Nil(t, after.CurrentOrderID)
	if assert.NotNil(t, after.LastOrderCompletedAt) {
		assert.False(t, after.LastOrderCompletedAt.Before(start.Add(-time.Second)))
	}

	// Order ready tetap tersimpan untuk reporting, meja sudah free lagi.
	w = doJSON(t, router, "POST", "/api/orders", placePayload(5, item.ID, 1))
	assert.Equal(t, http.StatusCreated, w.Code)
}
