package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// OrderItem is a frozen snapshot of a cart line at checkout time. It is never
// re-derived from the live cart.
type OrderItem struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	ProjectID uuid.UUID `json:"project_id,omitempty"`
	Area      string    `json:"area,omitempty"`
}

func (i OrderItem) LineKey() CartLineKey {
	return CartLineKey{ProductID: i.ProductID, ProjectID: i.ProjectID, Area: i.Area}
}

// Order is an immutable record of a checkout. Only status, delivery fields and
// payment linkage change after creation.
type Order struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Items            []OrderItem
	Amount           int64
	GatewayOrderID   string
	GatewayPaymentID sql.NullString
	Status           OrderStatus
	DeliveryStatus   DeliveryStatus
	DeliveryMeta     json.RawMessage
	CreatedAt        time.Time
	PaidAt           sql.NullTime
}
