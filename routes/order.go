package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/vivekkr10/bakery-sub000/controllers/order"
	"github.com/vivekkr10/bakery-sub000/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, gw orderControllers.GatewayClient) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Checkout + payment confirmation
		orders.POST("/create", orderControllers.CreateOrderHandler(db, gw))
		orders.POST("/verify-payment", orderControllers.VerifyPaymentHandler(db, gw))

		// Caller's own orders
		orders.GET("/my", orderControllers.GetMyOrdersHandler(db))
		orders.PUT("/cancel/:id", orderControllers.CancelOrderHandler(db))

		// Admin back-office (registered before "/:id" so the literal
		// segment wins over the wildcard)
		admin := orders.Group("/admin")
		admin.Use(middleware.RequireAdmin)
		{
			admin.GET("/all", orderControllers.GetAllOrdersHandler(db))
			admin.GET("/stats", orderControllers.GetOrderStatsHandler(db))
			admin.GET("/export", orderControllers.ExportOrdersToExcelHandler(db))
			admin.GET("/ws", orderControllers.OrderWebSocketHandler)
			admin.PUT("/status/:id", orderControllers.UpdateOrderStatusHandler(db))
			admin.DELETE("/:id", orderControllers.DeleteOrderHandler(db))
		}

		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
	}
}
