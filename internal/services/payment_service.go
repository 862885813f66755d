package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

// Milestone split for design estimates: 30% advance, remainder on balance.
const advancePct = 30.0

// PaymentService drives the gateway payment protocol: open an intent, verify
// the challenge callback signature, and apply downstream effects exactly once.
type PaymentService struct {
	payments  PaymentRepository
	estimates EstimateRepository
	orders    OrderRepository
	cart      *CartService
	gateway   PaymentGateway
	events    EventPublisher
	currency  string

	// verifyMu sequences verify calls per gateway order so two callbacks for
	// the same order cannot both observe a pending row.
	verifyMu keyedMutex
}

func NewPaymentService(payments PaymentRepository, estimates EstimateRepository, orders OrderRepository, cart *CartService, gateway PaymentGateway, events EventPublisher, currency string) *PaymentService {
	return &PaymentService{
		payments:  payments,
		estimates: estimates,
		orders:    orders,
		cart:      cart,
		gateway:   gateway,
		events:    events,
		currency:  currency,
	}
}

// CreateEstimateIntent opens a gateway order for a milestone payment on a
// design estimate. The amount is always computed server-side: 30% of the
// estimate total for an advance, the unpaid remainder for balance or full.
// No payment row is written unless the gateway call succeeds.
func (s *PaymentService) CreateEstimateIntent(ctx context.Context, userID, projectID, estimateID uuid.UUID, t models.PaymentType) (*models.Payment, error) {
	if !t.Valid() {
		return nil, errors.New("invalid payment type")
	}

	estimate, err := s.estimates.GetEstimate(ctx, estimateID)
	if err != nil {
		return nil, err
	}
	if estimate.ProjectID != projectID {
		return nil, ErrEstimateMismatch
	}

	paid, err := s.payments.ListPaidPaymentsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var paidSum int64
	for _, p := range paid {
		if p.EstimateID == uuid.Nil {
			continue
		}
		if p.Type == t {
			return nil, ErrNothingDue // milestone already settled
		}
		paidSum += p.Amount
	}

	var amount int64
	switch t {
	case models.PaymentTypeAdvance:
		amount = roundPct(estimate.TotalAmount, advancePct)
	case models.PaymentTypeBalance, models.PaymentTypeFull:
		amount = estimate.TotalAmount - paidSum
	}
	if amount <= 0 || paidSum+amount > estimate.TotalAmount {
		return nil, ErrNothingDue
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, estimateID.String())
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:         userID,
		ProjectID:      projectID,
		EstimateID:     estimateID,
		Type:           t,
		Amount:         amount,
		GatewayOrderID: gatewayOrderID,
	}
	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CreateOrderIntent opens a gateway order for a checkout. Called by the order
// ledger with the server-computed selection subtotal.
func (s *PaymentService) CreateOrderIntent(ctx context.Context, userID, orderID uuid.UUID, amount int64) (*models.Payment, error) {
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, orderID.String())
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:         userID,
		OrderID:        orderID,
		Type:           models.PaymentTypeFull,
		Amount:         amount,
		GatewayOrderID: gatewayOrderID,
	}
	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Verify is the sole path to a paid payment. The recomputed signature is the
// authority; a client-supplied success flag is never trusted. Verifying the
// same callback twice returns success without re-applying effects.
func (s *PaymentService) Verify(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*models.Payment, error) {
	mu := s.verifyMu.get(gatewayOrderID)
	mu.Lock()
	defer mu.Unlock()

	if !s.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		log.Printf("signature verification failed for gateway order %s", gatewayOrderID)
		return nil, ErrSignatureInvalid
	}

	payment, err := s.payments.GetPaymentByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownOrder
		}
		return nil, err
	}

	if payment.Status == models.PaymentPaid {
		// Duplicate callback; effects were already applied once.
		return payment, nil
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	paidAt := time.Now()
	committed, err := s.payments.MarkPaymentPaid(ctx, payment.ID, gatewayPaymentID, signature, paidAt)
	if err != nil {
		return nil, err
	}
	if !committed {
		// Lost the race to a concurrent verify; report its outcome.
		payment, err = s.payments.GetPaymentByGatewayOrderID(ctx, gatewayOrderID)
		if err != nil {
			return nil, err
		}
		if payment.Status == models.PaymentPaid {
			return payment, nil
		}
		return nil, ErrPaymentNotPending
	}

	payment.Status = models.PaymentPaid
	payment.GatewayPaymentID = sql.NullString{String: gatewayPaymentID, Valid: true}
	payment.GatewaySignature = sql.NullString{String: signature, Valid: true}
	payment.PaidAt = sql.NullTime{Time: paidAt, Valid: true}

	s.applyEffects(ctx, payment)
	return payment, nil
}

// applyEffects runs the downstream consequences of a freshly paid payment.
// Failures here are logged, never rolled back: the payment's durability
// outranks the notification.
func (s *PaymentService) applyEffects(ctx context.Context, payment *models.Payment) {
	if payment.OrderID != uuid.Nil {
		order, err := s.orders.GetOrderByID(ctx, payment.OrderID)
		if err != nil {
			log.Printf("paid payment %s: failed to load order: %v", payment.ID, err)
			return
		}
		if err := s.orders.MarkOrderPaid(ctx, order.ID, payment.GatewayPaymentID.String, payment.PaidAt.Time); err != nil {
			log.Printf("paid payment %s: failed to mark order paid: %v", payment.ID, err)
		}
		if s.cart != nil {
			if err := s.cart.RemovePaidItems(ctx, order.UserID, order.Items); err != nil {
				log.Printf("paid payment %s: failed to clear cart lines: %v", payment.ID, err)
			}
		}
		publishEvent(s.events, "order.paid", map[string]interface{}{
			"order_id": order.ID.String(),
			"user_id":  order.UserID.String(),
			"amount":   order.Amount,
		})
	}

	if payment.EstimateID != uuid.Nil {
		paid, err := s.payments.ListPaidPaymentsByProject(ctx, payment.ProjectID)
		if err != nil {
			log.Printf("paid payment %s: failed to recompute unlock state: %v", payment.ID, err)
			return
		}
		state := models.ComputeUnlockState(paid)
		publishEvent(s.events, "unlock.updated", map[string]interface{}{
			"project_id":           payment.ProjectID.String(),
			"renders_unlocked":     state.RendersUnlocked,
			"final_files_unlocked": state.FinalFilesUnlocked,
		})
	}
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
