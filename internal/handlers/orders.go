package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/services"
)

type OrdersHandler struct {
	orderService       *services.OrderService
	fulfillmentService *services.FulfillmentService
	gatewayKeyID       string
	currency           string
}

func NewOrdersHandler(orderService *services.OrderService, fulfillmentService *services.FulfillmentService, gatewayKeyID, currency string) *OrdersHandler {
	return &OrdersHandler{
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
		gatewayKeyID:       gatewayKeyID,
		currency:           currency,
	}
}

// Checkout godoc
// @Summary     Check out selected cart lines
// @Description Freezes the selected lines into a pending order and opens a gateway payment intent. Cart lines are removed only after the payment verifies.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CheckoutRequest true "Selected cart line ids"
// @Success     200 {object} models.CheckoutResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /checkout [post]
func (h *OrdersHandler) Checkout(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	lineIDs := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid line id", Message: raw})
			return
		}
		lineIDs = append(lineIDs, id)
	}

	order, payment, err := h.orderService.Checkout(c.Request.Context(), userID, lineIDs)
	middleware.RecordCommerceOperation("checkout", err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CheckoutResponse{
		OrderID:        order.ID.String(),
		PaymentID:      payment.ID.String(),
		GatewayOrderID: payment.GatewayOrderID,
		GatewayKeyID:   h.gatewayKeyID,
		Amount:         payment.Amount,
		Currency:       h.currency,
	})
}

// GetOrder godoc
// @Summary     Get order details
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListOrders godoc
// @Summary     List the user's orders
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderResponse, len(orders))}
	for i := range orders {
		resp.Orders[i] = toOrderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, resp)
}

// AdvanceDelivery godoc
// @Summary     Advance an order's delivery stage
// @Description Operator action. The target stage must be the immediate successor of the current one.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.AdvanceDeliveryRequest true "Target stage and optional tracking metadata"
// @Success     200 {object} models.OrderResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /orders/{order_id}/delivery [post]
func (h *OrdersHandler) AdvanceDelivery(c *gin.Context) {
	if h.fulfillmentService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	var req models.AdvanceDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	var meta json.RawMessage
	if req.TrackingID != "" || req.EstimatedDelivery != "" {
		meta, _ = json.Marshal(map[string]string{
			"tracking_id":        req.TrackingID,
			"estimated_delivery": req.EstimatedDelivery,
		})
	}

	order, err := h.fulfillmentService.AdvanceDelivery(c.Request.Context(), orderID, models.DeliveryStatus(req.ToStatus), meta)
	middleware.RecordCommerceOperation("advance_delivery", err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
