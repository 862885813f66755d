package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

const orderColumns = `id, user_id, items, amount, gateway_order_id, gateway_payment_id,
	status, delivery_status, delivery_meta, created_at, paid_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	var items, deliveryMeta []byte
	err := row.Scan(
		&o.ID, &o.UserID, &items, &o.Amount, &o.GatewayOrderID, &o.GatewayPaymentID,
		&o.Status, &o.DeliveryStatus, &deliveryMeta, &o.CreatedAt, &o.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	o.DeliveryMeta = deliveryMeta
	return &o, nil
}

func (d *DatabaseClient) InsertOrder(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	err = d.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, items, amount, status, delivery_status)
		VALUES ($1, $2, $3, 'pending', 'order_placed')
		RETURNING id, created_at
	`, o.UserID, items, o.Amount).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	o.Status = models.OrderPending
	o.DeliveryStatus = models.DeliveryOrderPlaced
	return nil
}

// SetOrderGatewayOrder links the order to its gateway order once the payment
// intent has been opened.
func (d *DatabaseClient) SetOrderGatewayOrder(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE orders
		SET gateway_order_id = $1
		WHERE id = $2
	`, gatewayOrderID, orderID)
	if err != nil {
		return fmt.Errorf("failed to set order gateway order: %w", err)
	}
	return nil
}

// DeleteOrder removes an order that never obtained a payment intent.
func (d *DatabaseClient) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `
		DELETE FROM orders
		WHERE id = $1 AND status = 'pending'
	`, orderID)
	return err
}

func (d *DatabaseClient) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(d.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (d *DatabaseClient) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(d.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (d *DatabaseClient) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

func (d *DatabaseClient) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string, paidAt time.Time) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'paid', gateway_payment_id = $1, paid_at = $2
		WHERE id = $3
	`, gatewayPaymentID, paidAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	return nil
}

func (d *DatabaseClient) UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status models.DeliveryStatus, meta json.RawMessage) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE orders
		SET delivery_status = $1, delivery_meta = COALESCE($2, delivery_meta)
		WHERE id = $3
	`, status, meta, orderID)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	return nil
}
