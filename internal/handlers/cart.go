package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/services"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart godoc
// @Summary     Get the cart
// @Description Returns all cart lines in insertion order with the cart subtotal
// @Tags        cart
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.CartResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lines, err := h.cartService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := models.CartResponse{Lines: make([]models.CartLineResponse, len(lines))}
	for i, line := range lines {
		resp.Lines[i] = toCartLineResponse(line)
		resp.Subtotal += line.UnitPriceSnapshot * int64(line.Quantity)
	}

	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary     Add a product to the cart
// @Description Merges into an existing line when the (product, project, area) key matches
// @Tags        cart
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AddCartItemRequest true "Item to add"
// @Success     200 {object} models.CartLineResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	projectID := uuid.Nil
	if req.ProjectID != "" {
		var err error
		projectID, err = uuid.Parse(req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
			return
		}
	}

	snapshot := models.ProductSnapshot{
		UnitPrice: req.UnitPrice,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
	}

	line, err := h.cartService.Add(c.Request.Context(), userID, req.ProductID, req.Quantity, projectID, req.Area, snapshot)
	middleware.RecordCommerceOperation("cart_add", err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartLineResponse(*line))
}

// UpdateItem godoc
// @Summary     Change a cart line quantity
// @Description A quantity below one removes the line
// @Tags        cart
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       line_id path string true "Cart line ID (UUID)"
// @Param       request body models.UpdateCartItemRequest true "New quantity"
// @Success     200 {object} map[string]string "message"
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /cart/items/{line_id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid line id"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), userID, lineID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

// RemoveItem godoc
// @Summary     Remove a cart line
// @Description Deletes the line matching the (product, project, area) key; a no-op when absent
// @Tags        cart
// @Produce     json
// @Security    Bearer
// @Param       product_id query string true "Product ID"
// @Param       project_id query string false "Project ID (UUID)"
// @Param       area query string false "Area name"
// @Success     200 {object} map[string]string "message"
// @Failure     400 {object} models.ErrorResponse
// @Router      /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "product_id is required"})
		return
	}

	projectID := uuid.Nil
	if raw := c.Query("project_id"); raw != "" {
		var err error
		projectID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
			return
		}
	}

	key := models.CartLineKey{ProductID: productID, ProjectID: projectID, Area: c.Query("area")}
	if err := h.cartService.Remove(c.Request.Context(), userID, key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}
