package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

// OrderService is the order ledger: it freezes selected cart lines into an
// immutable order at checkout and opens the payment intent for it. The cart
// is left untouched until the payment verifies, so an abandoned checkout
// costs nothing.
type OrderService struct {
	orders   OrderRepository
	cart     *CartService
	payments *PaymentService
	events   EventPublisher
}

func NewOrderService(orders OrderRepository, cart *CartService, payments *PaymentService, events EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		cart:     cart,
		payments: payments,
		events:   events,
	}
}

// Checkout snapshots the selected lines into a pending order and opens a
// gateway payment intent for the selection subtotal.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) (*models.Order, *models.Payment, error) {
	if len(lineIDs) == 0 {
		return nil, nil, ErrEmptySelection
	}

	lines, err := s.cart.ListSelection(ctx, userID, lineIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, ErrEmptySelection
	}

	items := make([]models.OrderItem, len(lines))
	var amount int64
	for i, line := range lines {
		items[i] = models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.TitleSnapshot,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPriceSnapshot,
			ProjectID: line.ProjectID,
			Area:      line.Area,
		}
		amount += line.UnitPriceSnapshot * int64(line.Quantity)
	}

	order := &models.Order{
		UserID: userID,
		Items:  items,
		Amount: amount,
	}
	if err := s.orders.InsertOrder(ctx, order); err != nil {
		return nil, nil, err
	}

	payment, err := s.payments.CreateOrderIntent(ctx, userID, order.ID, amount)
	if err != nil {
		// The gateway never saw this order; drop the stub so a retry starts
		// clean.
		if derr := s.orders.DeleteOrder(ctx, order.ID); derr != nil {
			log.Printf("failed to delete order %s after gateway failure: %v", order.ID, derr)
		}
		return nil, nil, err
	}

	if err := s.orders.SetOrderGatewayOrder(ctx, order.ID, payment.GatewayOrderID); err != nil {
		return nil, nil, err
	}
	order.GatewayOrderID = payment.GatewayOrderID

	publishEvent(s.events, "order.created", map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  userID.String(),
		"amount":   amount,
	})

	return order, payment, nil
}

func (s *OrderService) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	return s.orders.GetOrder(ctx, orderID, userID)
}

func (s *OrderService) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListOrders(ctx, userID)
}
