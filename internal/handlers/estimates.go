package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/services"
)

type EstimatesHandler struct {
	estimateService *services.EstimateService
}

func NewEstimatesHandler(estimateService *services.EstimateService) *EstimatesHandler {
	return &EstimatesHandler{estimateService: estimateService}
}

// GetEstimate godoc
// @Summary     Get the active estimate for a project
// @Description Returns the active estimate of the requested type, generating a rough one from the project's registered areas when none exists
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       type query string false "Estimate type (rough, initial or final; default rough)"
// @Success     200 {object} models.EstimateResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/estimate [get]
func (h *EstimatesHandler) GetEstimate(c *gin.Context) {
	if h.estimateService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	estimateType := models.EstimateType(c.DefaultQuery("type", string(models.EstimateRough)))
	if !estimateType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid estimate type"})
		return
	}

	estimate, err := h.estimateService.GetOrGenerate(c.Request.Context(), projectID, estimateType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEstimateResponse(estimate))
}

// GenerateEstimate godoc
// @Summary     Generate a new estimate
// @Description Prices the given line items and supersedes the prior active estimate of the same type
// @Tags        estimates
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.GenerateEstimateRequest true "Estimate inputs"
// @Success     200 {object} models.EstimateResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/estimates [post]
func (h *EstimatesHandler) GenerateEstimate(c *gin.Context) {
	if h.estimateService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	var req models.GenerateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	estimateType := models.EstimateType(req.Type)
	if !estimateType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid estimate type"})
		return
	}

	items := make([]models.EstimateLineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.EstimateLineItem{
			Description: item.Description,
			Area:        item.Area,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	estimate, err := h.estimateService.Generate(c.Request.Context(), projectID, estimateType, items, req.DiscountPct)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEstimateResponse(estimate))
}

// GetUnlockState godoc
// @Summary     Get the content unlock state for a project
// @Description Derived from the project's paid payments: a paid advance unlocks renders, a paid balance or full payment unlocks final files
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.UnlockState
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/unlock-state [get]
func (h *EstimatesHandler) GetUnlockState(c *gin.Context) {
	if h.estimateService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	state, err := h.estimateService.UnlockState(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
