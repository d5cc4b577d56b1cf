package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the API handlers mounted by NewRouter.
type Handlers struct {
	OrderAPI        OrderAPI
	NotificationAPI NotificationAPI
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(handlers Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	v1 := router.Group("/v1")
	orders := handlers.OrderAPI
	v1.POST("/orders", orders.CreateOrder)
	v1.GET("/orders/:orderId", orders.GetOrderByID)
	v1.PUT("/orders/:orderId/status", orders.UpdateOrderStatus)
	v1.POST("/orders/:orderId/pay", orders.MarkOrderPaid)
	v1.POST("/orders/:orderId/fulfill", orders.FulfillOrder)
	v1.DELETE("/orders/:orderId", orders.CancelOrder)
	v1.GET("/orders/:orderId/items", orders.GetOrderItems)
	v1.GET("/orders/:orderId/total", orders.CalculateOrderTotal)
	v1.GET("/users/:userId/orders", orders.GetOrdersByUser)

	notifications := handlers.NotificationAPI
	v1.POST("/notifications/bulk", notifications.SendBulk)
	v1.POST("/notifications/password-reset", notifications.SendPasswordReset)
	v1.POST("/users/:userId/welcome", notifications.SendWelcome)
	return router
}
