package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is a single cart entry. Price, title and image are snapshotted at
// add time so the cart stays valid even when the catalog entry changes or the
// product is demo-only data.
type CartLine struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ProductID         string
	Quantity          int
	ProjectID         uuid.UUID // uuid.Nil when the line is not tied to a project
	Area              string
	UnitPriceSnapshot int64
	TitleSnapshot     string
	ImageSnapshot     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CartLineKey is the merge identity of a line. Two adds with the same key
// merge quantities instead of creating a second line.
type CartLineKey struct {
	ProductID string
	ProjectID uuid.UUID
	Area      string
}

func (l *CartLine) Key() CartLineKey {
	return CartLineKey{ProductID: l.ProductID, ProjectID: l.ProjectID, Area: l.Area}
}

// ProductSnapshot carries the display data frozen onto a cart line at add time.
type ProductSnapshot struct {
	UnitPrice int64
	Title     string
	ImageURL  string
}
