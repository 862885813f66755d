package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/catalog"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/registry"
)

// In-memory repository fakes. Not-found is reported as sql.ErrNoRows, matching
// the database layer.

type memCartRepo struct {
	lines []*models.CartLine
}

func (r *memCartRepo) InsertLine(_ context.Context, line *models.CartLine) error {
	line.ID = uuid.New()
	line.CreatedAt = time.Now()
	line.UpdatedAt = line.CreatedAt
	copied := *line
	r.lines = append(r.lines, &copied)
	return nil
}

func (r *memCartRepo) GetLine(_ context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	for _, l := range r.lines {
		if l.ID == lineID && l.UserID == userID {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memCartRepo) GetLineByKey(_ context.Context, userID uuid.UUID, key models.CartLineKey) (*models.CartLine, error) {
	for _, l := range r.lines {
		if l.UserID == userID && l.Key() == key {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memCartRepo) UpdateLineQuantity(_ context.Context, lineID uuid.UUID, quantity int) error {
	for _, l := range r.lines {
		if l.ID == lineID {
			l.Quantity = quantity
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memCartRepo) DeleteLine(_ context.Context, userID, lineID uuid.UUID) error {
	for i, l := range r.lines {
		if l.ID == lineID && l.UserID == userID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memCartRepo) DeleteLineByKey(_ context.Context, userID uuid.UUID, key models.CartLineKey) error {
	for i, l := range r.lines {
		if l.UserID == userID && l.Key() == key {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memCartRepo) ListLines(_ context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, l := range r.lines {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memCartRepo) ListLinesByIDs(_ context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error) {
	wanted := make(map[uuid.UUID]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}
	var out []models.CartLine
	for _, l := range r.lines {
		if l.UserID == userID && wanted[l.ID] {
			out = append(out, *l)
		}
	}
	return out, nil
}

type memEstimateRepo struct {
	estimates []*models.Estimate
}

func (r *memEstimateRepo) ReplaceActiveEstimate(_ context.Context, e *models.Estimate) error {
	for _, existing := range r.estimates {
		if existing.ProjectID == e.ProjectID && existing.Type == e.Type && existing.Status == models.EstimateActive {
			existing.Status = models.EstimateSuperseded
		}
	}
	e.ID = uuid.New()
	e.Status = models.EstimateActive
	e.CreatedAt = time.Now()
	copied := *e
	r.estimates = append(r.estimates, &copied)
	return nil
}

func (r *memEstimateRepo) GetActiveEstimate(_ context.Context, projectID uuid.UUID, t models.EstimateType) (*models.Estimate, error) {
	for _, e := range r.estimates {
		if e.ProjectID == projectID && e.Type == t && e.Status == models.EstimateActive {
			copied := *e
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memEstimateRepo) GetEstimate(_ context.Context, estimateID uuid.UUID) (*models.Estimate, error) {
	for _, e := range r.estimates {
		if e.ID == estimateID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memPaymentRepo struct {
	payments []*models.Payment
}

func (r *memPaymentRepo) InsertPayment(_ context.Context, p *models.Payment) error {
	p.ID = uuid.New()
	p.Status = models.PaymentPending
	p.CreatedAt = time.Now()
	copied := *p
	r.payments = append(r.payments, &copied)
	return nil
}

func (r *memPaymentRepo) GetPaymentByGatewayOrderID(_ context.Context, gatewayOrderID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.GatewayOrderID == gatewayOrderID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memPaymentRepo) MarkPaymentPaid(_ context.Context, paymentID uuid.UUID, gatewayPaymentID, gatewaySignature string, paidAt time.Time) (bool, error) {
	for _, p := range r.payments {
		if p.ID == paymentID {
			if p.Status != models.PaymentPending {
				return false, nil
			}
			p.Status = models.PaymentPaid
			p.GatewayPaymentID = sql.NullString{String: gatewayPaymentID, Valid: true}
			p.GatewaySignature = sql.NullString{String: gatewaySignature, Valid: true}
			p.PaidAt = sql.NullTime{Time: paidAt, Valid: true}
			return true, nil
		}
	}
	return false, sql.ErrNoRows
}

func (r *memPaymentRepo) ListPaidPaymentsByProject(_ context.Context, projectID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.ProjectID == projectID && p.Status == models.PaymentPaid {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memOrderRepo struct {
	orders []*models.Order
}

func (r *memOrderRepo) InsertOrder(_ context.Context, o *models.Order) error {
	o.ID = uuid.New()
	o.Status = models.OrderPending
	o.DeliveryStatus = models.DeliveryOrderPlaced
	o.CreatedAt = time.Now()
	copied := *o
	r.orders = append(r.orders, &copied)
	return nil
}

func (r *memOrderRepo) SetOrderGatewayOrder(_ context.Context, orderID uuid.UUID, gatewayOrderID string) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			o.GatewayOrderID = gatewayOrderID
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memOrderRepo) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	for i, o := range r.orders {
		if o.ID == orderID && o.Status == models.OrderPending {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memOrderRepo) GetOrder(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memOrderRepo) GetOrderByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == orderID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memOrderRepo) ListOrders(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) MarkOrderPaid(_ context.Context, orderID uuid.UUID, gatewayPaymentID string, paidAt time.Time) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			o.Status = models.OrderPaid
			o.GatewayPaymentID = sql.NullString{String: gatewayPaymentID, Valid: true}
			o.PaidAt = sql.NullTime{Time: paidAt, Valid: true}
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memOrderRepo) UpdateDeliveryStatus(_ context.Context, orderID uuid.UUID, status models.DeliveryStatus, meta json.RawMessage) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			o.DeliveryStatus = status
			if meta != nil {
				o.DeliveryMeta = meta
			}
			return nil
		}
	}
	return sql.ErrNoRows
}

// fakeGateway hands out sequential order ids and accepts exactly one signature
// per order: "sig:<order_id>|<payment_id>".
type fakeGateway struct {
	createErr error
	created   int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	g.created++
	return fmt.Sprintf("order_%03d", g.created), nil
}

func (g *fakeGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return signature == "sig:"+gatewayOrderID+"|"+gatewayPaymentID
}

func signatureFor(gatewayOrderID, gatewayPaymentID string) string {
	return "sig:" + gatewayOrderID + "|" + gatewayPaymentID
}

type recordedEvent struct {
	name    string
	payload map[string]interface{}
}

type recordingPublisher struct {
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(event string, payload map[string]interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{name: event, payload: payload})
	return nil
}

func (p *recordingPublisher) names() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.name
	}
	return out
}

type fakeCatalog struct {
	products map[string]*catalog.Product
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID string) (*catalog.Product, error) {
	if p, ok := c.products[productID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errors.New("product not found")
}

type fakeRegistry struct {
	areas map[uuid.UUID][]registry.Area
	err   error
}

func (r *fakeRegistry) ListAreas(_ context.Context, projectID uuid.UUID) ([]registry.Area, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.areas[projectID], nil
}
