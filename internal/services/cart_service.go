package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"design-commerce-backend/internal/models"
)

// CartService owns the cart line lifecycle. Lines merge by the
// (product, project, area) identity key; display data is snapshotted at add
// time and enriched from the live catalog when it answers in time.
type CartService struct {
	repo    CartRepository
	catalog ProductCatalog
	events  EventPublisher
}

func NewCartService(repo CartRepository, catalog ProductCatalog, events EventPublisher) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		events:  events,
	}
}

// Add merges into an existing line when the identity key matches, otherwise
// creates a new line. Returns the resulting line.
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, productID string, quantity int, projectID uuid.UUID, area string, snapshot models.ProductSnapshot) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// Best-effort enrichment over the authoritative snapshot. A slow or
	// missing catalog never blocks the add.
	if s.catalog != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		product, err := s.catalog.GetProduct(lookupCtx, productID)
		cancel()
		if err != nil {
			log.Printf("catalog lookup for %s failed, using snapshot: %v", productID, err)
		} else {
			snapshot.UnitPrice = product.Price
			if product.Title != "" {
				snapshot.Title = product.Title
			}
			if product.ImageURL != "" {
				snapshot.ImageURL = product.ImageURL
			}
		}
	}

	key := models.CartLineKey{ProductID: productID, ProjectID: projectID, Area: area}
	existing, err := s.repo.GetLineByKey(ctx, userID, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		merged := existing.Quantity + quantity
		if err := s.repo.UpdateLineQuantity(ctx, existing.ID, merged); err != nil {
			return nil, err
		}
		existing.Quantity = merged
		s.notifyCartChanged(userID)
		return existing, nil
	}

	line := &models.CartLine{
		UserID:            userID,
		ProductID:         productID,
		Quantity:          quantity,
		ProjectID:         projectID,
		Area:              area,
		UnitPriceSnapshot: snapshot.UnitPrice,
		TitleSnapshot:     snapshot.Title,
		ImageSnapshot:     snapshot.ImageURL,
	}
	if err := s.repo.InsertLine(ctx, line); err != nil {
		return nil, err
	}

	s.notifyCartChanged(userID)
	return line, nil
}

// Remove deletes the line matching the identity key. Removing an absent line
// is a no-op, not an error.
func (s *CartService) Remove(ctx context.Context, userID uuid.UUID, key models.CartLineKey) error {
	if err := s.repo.DeleteLineByKey(ctx, userID, key); err != nil {
		return err
	}
	s.notifyCartChanged(userID)
	return nil
}

// SetQuantity updates a line in place; a quantity below one behaves as remove.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		if err := s.repo.DeleteLine(ctx, userID, lineID); err != nil {
			return err
		}
		s.notifyCartChanged(userID)
		return nil
	}

	if _, err := s.repo.GetLine(ctx, userID, lineID); err != nil {
		return err
	}
	if err := s.repo.UpdateLineQuantity(ctx, lineID, quantity); err != nil {
		return err
	}
	s.notifyCartChanged(userID)
	return nil
}

// List returns all lines in insertion order.
func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	return s.repo.ListLines(ctx, userID)
}

// ListSelection returns the lines matching the given ids, in insertion order.
func (s *CartService) ListSelection(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error) {
	return s.repo.ListLinesByIDs(ctx, userID, lineIDs)
}

// SelectionSubtotal prices the selected lines from their snapshots. Lines
// whose product no longer resolves in the catalog are still included.
func (s *CartService) SelectionSubtotal(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) (int64, error) {
	lines, err := s.repo.ListLinesByIDs(ctx, userID, lineIDs)
	if err != nil {
		return 0, err
	}
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPriceSnapshot * int64(line.Quantity)
	}
	return subtotal, nil
}

// RemovePaidItems clears the frozen item set of a paid order from the cart,
// matching by identity key rather than line id since the cart may have been
// mutated since checkout. Removal is capped at the paid quantity: any surplus
// the user added in the interim stays in the cart. Missing lines are skipped.
func (s *CartService) RemovePaidItems(ctx context.Context, userID uuid.UUID, items []models.OrderItem) error {
	var firstErr error
	for _, item := range items {
		line, err := s.repo.GetLineByKey(ctx, userID, item.LineKey())
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue // already removed by the user
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if line.Quantity > item.Quantity {
			err = s.repo.UpdateLineQuantity(ctx, line.ID, line.Quantity-item.Quantity)
		} else {
			err = s.repo.DeleteLineByKey(ctx, userID, item.LineKey())
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.notifyCartChanged(userID)
	return firstErr
}

// notifyCartChanged lets every other view of the same cart refresh after a
// mutation.
func (s *CartService) notifyCartChanged(userID uuid.UUID) {
	publishEvent(s.events, "cart.updated", map[string]interface{}{
		"user_id": userID.String(),
	})
}
