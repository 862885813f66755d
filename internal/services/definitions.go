package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/catalog"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/registry"
)

type CartRepository interface {
	InsertLine(ctx context.Context, line *models.CartLine) error
	GetLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error)
	GetLineByKey(ctx context.Context, userID uuid.UUID, key models.CartLineKey) (*models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error
	DeleteLineByKey(ctx context.Context, userID uuid.UUID, key models.CartLineKey) error
	ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	ListLinesByIDs(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error)
}

type EstimateRepository interface {
	ReplaceActiveEstimate(ctx context.Context, e *models.Estimate) error
	GetActiveEstimate(ctx context.Context, projectID uuid.UUID, t models.EstimateType) (*models.Estimate, error)
	GetEstimate(ctx context.Context, estimateID uuid.UUID) (*models.Estimate, error)
}

type PaymentRepository interface {
	InsertPayment(ctx context.Context, p *models.Payment) error
	GetPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
	MarkPaymentPaid(ctx context.Context, paymentID uuid.UUID, gatewayPaymentID, gatewaySignature string, paidAt time.Time) (bool, error)
	ListPaidPaymentsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Payment, error)
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	SetOrderGatewayOrder(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID, gatewayPaymentID string, paidAt time.Time) error
	UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status models.DeliveryStatus, meta json.RawMessage) error
}

// PaymentGateway is the external gateway contract: open an order, verify the
// challenge callback signature.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// ProductCatalog is best-effort: a failed lookup falls back to the line's own
// snapshot.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

// AreaRegistry supplies the areas in scope for a project, used to seed rough
// estimates.
type AreaRegistry interface {
	ListAreas(ctx context.Context, projectID uuid.UUID) ([]registry.Area, error)
}

type EventPublisher interface {
	Publish(event string, payload map[string]interface{}) error
}

// publishEvent is fire-and-forget: notification failure never fails the
// operation that produced the event.
func publishEvent(events EventPublisher, event string, payload map[string]interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(event, payload); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
	}
}
