package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/razorpay"
	"design-commerce-backend/internal/services"
)

// currentUserID pulls the authenticated user out of the Gin context. Writes
// the error response itself and returns false when the request cannot proceed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

// respondServiceError maps service errors onto the wire taxonomy: validation
// failures are 400, missing records 404, conflicts 409, gateway trouble 502.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptySelection),
		errors.Is(err, services.ErrNoPricingInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.Is(err, services.ErrUnknownOrder),
		errors.Is(err, services.ErrPaymentNotPending),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrEstimateMismatch),
		errors.Is(err, services.ErrNothingDue):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, razorpay.ErrGatewayTimeout),
		errors.Is(err, razorpay.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "payment gateway unavailable",
			Message: "please try again in a moment",
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal error",
			Message: err.Error(),
		})
	}
}

func toCartLineResponse(line models.CartLine) models.CartLineResponse {
	resp := models.CartLineResponse{
		ID:        line.ID.String(),
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Area:      line.Area,
		UnitPrice: line.UnitPriceSnapshot,
		Title:     line.TitleSnapshot,
		ImageURL:  line.ImageSnapshot,
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	}
	if line.ProjectID != uuid.Nil {
		resp.ProjectID = line.ProjectID.String()
	}
	return resp
}

func toEstimateResponse(e *models.Estimate) models.EstimateResponse {
	return models.EstimateResponse{
		ID:          e.ID.String(),
		ProjectID:   e.ProjectID.String(),
		Type:        string(e.Type),
		LineItems:   e.LineItems,
		Subtotal:    e.Subtotal,
		DiscountPct: e.DiscountPct,
		DiscountAmt: e.DiscountAmt,
		GSTPct:      e.GSTPct,
		GSTAmt:      e.GSTAmt,
		TotalAmount: e.TotalAmount,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func toOrderResponse(o *models.Order) models.OrderResponse {
	items := make([]models.OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = models.OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Area:      item.Area,
		}
		if item.ProjectID != uuid.Nil {
			items[i].ProjectID = item.ProjectID.String()
		}
	}

	resp := models.OrderResponse{
		ID:             o.ID.String(),
		Items:          items,
		Amount:         o.Amount,
		Status:         string(o.Status),
		DeliveryStatus: o.DeliveryStatus.String(),
		CreatedAt:      o.CreatedAt,
	}
	if len(o.DeliveryMeta) > 0 {
		var meta map[string]interface{}
		if err := json.Unmarshal(o.DeliveryMeta, &meta); err == nil {
			resp.DeliveryMeta = meta
		}
	}
	if o.PaidAt.Valid {
		paidAt := o.PaidAt.Time
		resp.PaidAt = &paidAt
	}
	return resp
}
