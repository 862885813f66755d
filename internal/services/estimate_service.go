package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

// EstimateService prices design work for a project. Generating an estimate
// supersedes the prior active one of the same type; unlock flags are a pure
// projection over paid payments and never stored.
type EstimateService struct {
	repo     EstimateRepository
	payments PaymentRepository
	registry AreaRegistry
	gstPct   float64
}

func NewEstimateService(repo EstimateRepository, payments PaymentRepository, areaRegistry AreaRegistry, gstPct float64) *EstimateService {
	return &EstimateService{
		repo:     repo,
		payments: payments,
		registry: areaRegistry,
		gstPct:   gstPct,
	}
}

// Generate computes subtotal, discount, GST and total from the line items and
// inserts the estimate as the active one of its type for the project.
func (s *EstimateService) Generate(ctx context.Context, projectID uuid.UUID, t models.EstimateType, items []models.EstimateLineItem, discountPct float64) (*models.Estimate, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid estimate type %q", t)
	}
	if len(items) == 0 {
		return nil, ErrNoPricingInput
	}
	if discountPct < 0 || discountPct > 100 {
		return nil, fmt.Errorf("discount percentage %v out of range", discountPct)
	}

	var subtotal int64
	for i := range items {
		items[i].Total = items[i].UnitPrice * int64(items[i].Quantity)
		subtotal += items[i].Total
	}

	discountAmt := roundPct(subtotal, discountPct)
	gstAmt := roundPct(subtotal-discountAmt, s.gstPct)

	estimate := &models.Estimate{
		ProjectID:   projectID,
		Type:        t,
		LineItems:   items,
		Subtotal:    subtotal,
		DiscountPct: discountPct,
		DiscountAmt: discountAmt,
		GSTPct:      s.gstPct,
		GSTAmt:      gstAmt,
		TotalAmount: subtotal - discountAmt + gstAmt,
	}

	if err := s.repo.ReplaceActiveEstimate(ctx, estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

// GetActive returns the current active estimate of the given type, or nil
// when none exists.
func (s *EstimateService) GetActive(ctx context.Context, projectID uuid.UUID, t models.EstimateType) (*models.Estimate, error) {
	estimate, err := s.repo.GetActiveEstimate(ctx, projectID, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return estimate, nil
}

// GetOrGenerate returns the active estimate, auto-generating one from the
// project's registered areas when none exists, so a quote request never
// surfaces a missing-estimate error to the end user.
func (s *EstimateService) GetOrGenerate(ctx context.Context, projectID uuid.UUID, t models.EstimateType) (*models.Estimate, error) {
	estimate, err := s.GetActive(ctx, projectID, t)
	if err != nil {
		return nil, err
	}
	if estimate != nil {
		return estimate, nil
	}

	if s.registry == nil {
		return nil, ErrNoPricingInput
	}
	areas, err := s.registry.ListAreas(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read project areas: %w", err)
	}
	if len(areas) == 0 {
		return nil, ErrNoPricingInput
	}

	items := make([]models.EstimateLineItem, len(areas))
	for i, area := range areas {
		items[i] = models.EstimateLineItem{
			Description: fmt.Sprintf("%s design package", area.Name),
			Area:        area.Name,
			Quantity:    1,
			UnitPrice:   area.BaseRate,
		}
	}

	return s.Generate(ctx, projectID, t, items, 0)
}

// UnlockState recomputes the content gates for the project from its paid
// payments. Self-heals when a payment verifies late or out of order.
func (s *EstimateService) UnlockState(ctx context.Context, projectID uuid.UUID) (models.UnlockState, error) {
	payments, err := s.payments.ListPaidPaymentsByProject(ctx, projectID)
	if err != nil {
		return models.UnlockState{}, err
	}
	return models.ComputeUnlockState(payments), nil
}

// roundPct applies a percentage to a paise amount, rounding half away from
// zero.
func roundPct(amount int64, pct float64) int64 {
	return int64(math.Round(float64(amount) * pct / 100))
}
