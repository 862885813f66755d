package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

const paymentColumns = `id, user_id, project_id, estimate_id, order_id, type, amount,
	gateway_order_id, gateway_payment_id, gateway_signature, status, created_at, paid_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var p models.Payment
	var projectID, estimateID, orderID uuid.NullUUID
	err := row.Scan(
		&p.ID, &p.UserID, &projectID, &estimateID, &orderID, &p.Type, &p.Amount,
		&p.GatewayOrderID, &p.GatewayPaymentID, &p.GatewaySignature, &p.Status,
		&p.CreatedAt, &p.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	p.ProjectID = projectID.UUID
	p.EstimateID = estimateID.UUID
	p.OrderID = orderID.UUID
	return &p, nil
}

func (d *DatabaseClient) InsertPayment(ctx context.Context, p *models.Payment) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO payments (user_id, project_id, estimate_id, order_id, type, amount,
			gateway_order_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING id, created_at
	`, p.UserID, nullUUID(p.ProjectID), nullUUID(p.EstimateID), nullUUID(p.OrderID),
		p.Type, p.Amount, p.GatewayOrderID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	p.Status = models.PaymentPending
	return nil
}

func (d *DatabaseClient) GetPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	p, err := scanPayment(d.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE gateway_order_id = $1
	`, gatewayOrderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// MarkPaymentPaid flips pending to paid with a compare-and-set on status.
// Returns false when the row was not pending, which is how a duplicate verify
// callback is detected.
func (d *DatabaseClient) MarkPaymentPaid(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID, gatewaySignature string, paidAt time.Time) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'paid', gateway_payment_id = $1, gateway_signature = $2, paid_at = $3
		WHERE id = $4 AND status = 'pending'
	`, gatewayPaymentID, gatewaySignature, paidAt, paymentID)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (d *DatabaseClient) ListPaidPaymentsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Payment, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE project_id = $1 AND status = 'paid'
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paid payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}

	return payments, rows.Err()
}
