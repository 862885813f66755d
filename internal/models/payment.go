package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypeAdvance PaymentType = "advance"
	PaymentTypeBalance PaymentType = "balance"
	PaymentTypeFull    PaymentType = "full"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeAdvance || t == PaymentTypeBalance || t == PaymentTypeFull
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment tracks one gateway payment attempt. A row is created in pending
// state when a gateway order is opened and moves to paid only after the
// callback signature verifies server-side. Abandoned attempts stay pending
// forever; unlock and ledger decisions honor paid rows only.
type Payment struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ProjectID        uuid.UUID // uuid.Nil for order-only payments
	EstimateID       uuid.UUID // uuid.Nil when order-linked
	OrderID          uuid.UUID // uuid.Nil when estimate-linked
	Type             PaymentType
	Amount           int64
	GatewayOrderID   string
	GatewayPaymentID sql.NullString
	GatewaySignature sql.NullString
	Status           PaymentStatus
	CreatedAt        time.Time
	PaidAt           sql.NullTime
}
