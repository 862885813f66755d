package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

const estimateColumns = `id, project_id, type, line_items, subtotal, discount_pct,
	discount_amt, gst_pct, gst_amt, total_amount, status, created_at`

func scanEstimate(row interface{ Scan(...interface{}) error }) (*models.Estimate, error) {
	var e models.Estimate
	var lineItems []byte
	err := row.Scan(
		&e.ID, &e.ProjectID, &e.Type, &lineItems, &e.Subtotal, &e.DiscountPct,
		&e.DiscountAmt, &e.GSTPct, &e.GSTAmt, &e.TotalAmount, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lineItems, &e.LineItems); err != nil {
		return nil, fmt.Errorf("failed to decode estimate line items: %w", err)
	}
	return &e, nil
}

// ReplaceActiveEstimate supersedes the current active estimate of the same
// type for the project and inserts the new one as active, in one transaction.
func (d *DatabaseClient) ReplaceActiveEstimate(ctx context.Context, e *models.Estimate) error {
	lineItems, err := json.Marshal(e.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode estimate line items: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE estimates
		SET status = 'superseded'
		WHERE project_id = $1 AND type = $2 AND status = 'active'
	`, e.ProjectID, e.Type); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to supersede estimate: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO estimates (project_id, type, line_items, subtotal, discount_pct,
			discount_amt, gst_pct, gst_amt, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
		RETURNING id, created_at
	`, e.ProjectID, e.Type, lineItems, e.Subtotal, e.DiscountPct,
		e.DiscountAmt, e.GSTPct, e.GSTAmt, e.TotalAmount,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert estimate: %w", err)
	}
	e.Status = models.EstimateActive

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit estimate: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetActiveEstimate(ctx context.Context, projectID uuid.UUID, t models.EstimateType) (*models.Estimate, error) {
	e, err := scanEstimate(d.db.QueryRowContext(ctx, `
		SELECT `+estimateColumns+`
		FROM estimates
		WHERE project_id = $1 AND type = $2 AND status = 'active'
	`, projectID, t))
	if err != nil {
		return nil, fmt.Errorf("failed to get active estimate: %w", err)
	}
	return e, nil
}

func (d *DatabaseClient) GetEstimate(ctx context.Context, estimateID uuid.UUID) (*models.Estimate, error) {
	e, err := scanEstimate(d.db.QueryRowContext(ctx, `
		SELECT `+estimateColumns+`
		FROM estimates
		WHERE id = $1
	`, estimateID))
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	return e, nil
}
