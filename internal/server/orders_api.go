package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/go-order-service/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/Apurer/go-order-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /v1/orders
// Create an order with its items
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload ordershttpmapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), payload.UserID, ordershttpmapper.ToItemInputs(payload.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordershttpmapper.FromDomainOrder(order))
}

// Get /v1/orders/:orderId
// Find an order by ID
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		responder.NotFound(c, "order", id)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}

// Get /v1/users/:userId/orders
// List a user's orders, most recent first
func (api *OrderAPI) GetOrdersByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	orders, err := api.service.GetOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrders(orders))
}

// Put /v1/orders/:orderId/status
// Move an order to another status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload ordershttpmapper.UpdateStatus
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), id, ordersdomain.Status(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/pay
// Mark an order as paid
func (api *OrderAPI) MarkOrderPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.MarkOrderPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}

// Post /v1/orders/:orderId/fulfill
// Mark an order as fulfilled
func (api *OrderAPI) FulfillOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.FulfillOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}

// Delete /v1/orders/:orderId
// Cancel an order, removing it and its items
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/orders/:orderId/items
func (api *OrderAPI) GetOrderItems(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	items, err := api.service.GetOrderItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainItems(items))
}

// Get /v1/orders/:orderId/total
// Recompute the total from the current items
func (api *OrderAPI) CalculateOrderTotal(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	total, err := api.service.CalculateOrderTotal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.OrderTotal{OrderID: id, Total: total})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
