// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/order"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, _ := currentUser(c)

	o, err := h.orderService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, o)
}

// GetAllOrders handles GET /orders
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(orders), orders)
}

// GetMyOrders handles GET /orders/showAllMyOrders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, _ := currentUser(c)

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(orders), orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	o, err := h.orderService.GetSingleOrder(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, o)
}

// UpdateOrder handles PATCH /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, o)
}
