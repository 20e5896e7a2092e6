package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-order/controllers"
	"github.com/yeremiapane/table-order/events"
	"github.com/yeremiapane/table-order/middlewares"
)

func SetupRouter(db *gorm.DB, hub *events.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limit seluruh API per IP.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, hub)
	streamCtrl := controllers.NewEventStreamController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Channel realtime: publik, global, tanpa replay.
	r.GET("/ws", streamCtrl.Stream)

	api := r.Group("/api")

	// -- AUTH --
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (tanpa login) --
	api.GET("/menu", menuCtrl.GetMenuItems)
	api.GET("/menu/:menu_id", menuCtrl.GetMenuItemByID)

	api.GET("/tables/:number", tableCtrl.GetTableStatus)
	api.POST("/tables/:number/session", tableCtrl.StartSession)
	// Path statis terpisah supaya tidak bentrok dengan wildcard :number.
	api.POST("/sessions/validate", tableCtrl.ValidateSession)

	api.POST("/orders", orderCtrl.PlaceOrder)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// -- KITCHEN (kitchen staff / manager) --
	kitchen := api.Group("/")
	kitchen.Use(middlewares.AuthMiddleware(), middlewares.KitchenOnly())
	{
		kitchen.GET("/orders", orderCtrl.GetOrders)
		kitchen.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		kitchen.PATCH("/menu/:menu_id/availability", menuCtrl.ToggleAvailability)
	}

	// -- MANAGER --
	manager := api.Group("/")
	manager.Use(middlewares.AuthMiddleware(), middlewares.ManagerOnly())
	{
		// Path statis terpisah supaya tidak bentrok dengan /orders/:order_id.
		manager.GET("/reports/orders", orderCtrl.GetOrderHistory)

		manager.GET("/tables", tableCtrl.GetAllTables)
		manager.POST("/tables", tableCtrl.CreateTable)
		manager.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		manager.POST("/menu", menuCtrl.CreateMenuItem)
		manager.PUT("/menu/:menu_id", menuCtrl.UpdateMenuItem)
		manager.DELETE("/menu/:menu_id", menuCtrl.DeleteMenuItem)

		manager.GET("/users", userCtrl.GetAllUsers)
		manager.POST("/users", userCtrl.CreateUser)
		manager.PUT("/users/:user_id", userCtrl.UpdateUser)
		manager.DELETE("/users/:user_id", userCtrl.DeleteUser)
	}

	return r
}
