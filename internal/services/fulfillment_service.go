package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

// FulfillmentService advances orders through the delivery stages. Transitions
// are operator actions and only ever move one stage forward.
type FulfillmentService struct {
	orders OrderRepository
	events EventPublisher
}

func NewFulfillmentService(orders OrderRepository, events EventPublisher) *FulfillmentService {
	return &FulfillmentService{
		orders: orders,
		events: events,
	}
}

// AdvanceDelivery moves the order to the given stage. The stage must be the
// immediate successor of the current one: no skipping, no regression. The
// optional metadata (tracking id, estimated delivery) becomes visible on the
// customer-facing read path.
func (s *FulfillmentService) AdvanceDelivery(ctx context.Context, orderID uuid.UUID, to models.DeliveryStatus, meta json.RawMessage) (*models.Order, error) {
	if !to.Valid() {
		return nil, ErrInvalidTransition
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.DeliveryStatus.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	if err := s.orders.UpdateDeliveryStatus(ctx, orderID, to, meta); err != nil {
		return nil, err
	}
	order.DeliveryStatus = to
	if meta != nil {
		order.DeliveryMeta = meta
	}

	publishEvent(s.events, "delivery.advanced", map[string]interface{}{
		"order_id":        order.ID.String(),
		"user_id":         order.UserID.String(),
		"delivery_status": to.String(),
	})

	return order, nil
}
