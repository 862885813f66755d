package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/services"
)

type PaymentsHandler struct {
	paymentService *services.PaymentService
	gatewayKeyID   string
	currency       string
}

func NewPaymentsHandler(paymentService *services.PaymentService, gatewayKeyID, currency string) *PaymentsHandler {
	return &PaymentsHandler{
		paymentService: paymentService,
		gatewayKeyID:   gatewayKeyID,
		currency:       currency,
	}
}

// CreateIntent godoc
// @Summary     Open a milestone payment intent for a design estimate
// @Description Opens a gateway order for the advance (30%) or the unpaid remainder. The amount is computed server-side and never trusted from the client.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateIntentRequest true "Estimate and milestone type"
// @Success     200 {object} models.PaymentIntentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /payments/intent [post]
func (h *PaymentsHandler) CreateIntent(c *gin.Context) {
	if h.paymentService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}
	estimateID, err := uuid.Parse(req.EstimateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid estimate id"})
		return
	}

	paymentType := models.PaymentType(req.Type)
	if !paymentType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid payment type"})
		return
	}

	payment, err := h.paymentService.CreateEstimateIntent(c.Request.Context(), userID, projectID, estimateID, paymentType)
	middleware.RecordCommerceOperation("create_intent", err == nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PaymentIntentResponse{
		PaymentID:      payment.ID.String(),
		GatewayOrderID: payment.GatewayOrderID,
		GatewayKeyID:   h.gatewayKeyID,
		Amount:         payment.Amount,
		Currency:       h.currency,
	})
}

// VerifyPayment godoc
// @Summary     Verify a gateway payment callback
// @Description Recomputes the callback signature server-side and marks the payment paid on match. Verifying the same callback twice is safe.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.VerifyPaymentRequest true "Gateway callback fields"
// @Success     200 {object} models.VerifyPaymentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /payments/verify [post]
func (h *PaymentsHandler) VerifyPayment(c *gin.Context) {
	if h.paymentService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	payment, err := h.paymentService.Verify(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	middleware.RecordCommerceOperation("verify_payment", err == nil)
	if err != nil {
		if errors.Is(err, services.ErrSignatureInvalid) {
			// Audit trail server-side; no internal detail on the wire.
			log.Printf("rejected payment verification for gateway order %s", req.GatewayOrderID)
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "payment could not be verified, contact support",
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	resp := models.VerifyPaymentResponse{
		PaymentID: payment.ID.String(),
		Status:    string(payment.Status),
	}
	if payment.PaidAt.Valid {
		paidAt := payment.PaidAt.Time
		resp.PaidAt = &paidAt
	}

	c.JSON(http.StatusOK, resp)
}
