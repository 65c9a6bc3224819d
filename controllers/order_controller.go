package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderController serves the public order request endpoint and the admin
// order processing surface.
type OrderController struct {
	orders OrderAPI
}

func NewOrderController(orders OrderAPI) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrderRequest is the public order form.
type CreateOrderRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// CreateOrder records a customer order request.
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and email are required"})
		return
	}
	order, err := ctrl.orders.Create(c.Request.Context(), req.ProductID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns all orders for the admin dashboard, newest first.
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	orders, err := ctrl.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// MarkProcessed transitions an order to processed.
func (ctrl *OrderController) MarkProcessed(c *gin.Context) {
	if err := ctrl.orders.MarkProcessed(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
