package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-commerce-backend/internal/catalog"
	"design-commerce-backend/internal/models"
)

func TestCartAddMergesByIdentityKey(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()
	projectID := uuid.New()
	snapshot := models.ProductSnapshot{UnitPrice: 150000, Title: "Accent Chair"}

	first, err := svc.Add(context.Background(), userID, "prod-1", 2, projectID, "Living Room", snapshot)
	require.NoError(t, err)

	second, err := svc.Add(context.Background(), userID, "prod-1", 3, projectID, "Living Room", snapshot)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCartAddDifferentAreaCreatesSeparateLine(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()
	projectID := uuid.New()
	snapshot := models.ProductSnapshot{UnitPrice: 150000}

	_, err := svc.Add(context.Background(), userID, "prod-1", 1, projectID, "Living Room", snapshot)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, "prod-1", 1, projectID, "Bedroom", snapshot)
	require.NoError(t, err)

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCartAddRejectsZeroQuantity(t *testing.T) {
	svc := NewCartService(&memCartRepo{}, nil, nil)

	_, err := svc.Add(context.Background(), uuid.New(), "prod-1", 0, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 100})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartAddEnrichesSnapshotFromCatalog(t *testing.T) {
	repo := &memCartRepo{}
	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"prod-1": {ID: "prod-1", Title: "Walnut Desk", ImageURL: "https://cdn.example.com/desk.jpg", Price: 425000},
	}}
	svc := NewCartService(repo, cat, nil)
	userID := uuid.New()

	line, err := svc.Add(context.Background(), userID, "prod-1", 1, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 99, Title: "stale"})
	require.NoError(t, err)

	assert.Equal(t, int64(425000), line.UnitPriceSnapshot)
	assert.Equal(t, "Walnut Desk", line.TitleSnapshot)
	assert.Equal(t, "https://cdn.example.com/desk.jpg", line.ImageSnapshot)
}

func TestCartAddFallsBackToSnapshotWhenCatalogFails(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, &fakeCatalog{}, nil)
	userID := uuid.New()

	line, err := svc.Add(context.Background(), userID, "ghost-product", 1, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 75000, Title: "Client Snapshot"})
	require.NoError(t, err)

	assert.Equal(t, int64(75000), line.UnitPriceSnapshot)
	assert.Equal(t, "Client Snapshot", line.TitleSnapshot)
}

func TestCartRemoveAbsentLineIsNoop(t *testing.T) {
	svc := NewCartService(&memCartRepo{}, nil, nil)

	err := svc.Remove(context.Background(), uuid.New(), models.CartLineKey{ProductID: "nope"})
	assert.NoError(t, err)
}

func TestCartSetQuantityBelowOneRemovesLine(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()

	line, err := svc.Add(context.Background(), userID, "prod-1", 2, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 100})
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(context.Background(), userID, line.ID, 0))

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartSetQuantityChecksOwnership(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	owner := uuid.New()

	line, err := svc.Add(context.Background(), owner, "prod-1", 2, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 100})
	require.NoError(t, err)

	err = svc.SetQuantity(context.Background(), uuid.New(), line.ID, 5)
	assert.Error(t, err)

	kept, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].Quantity)
}

func TestCartSelectionSubtotalUsesSnapshots(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()

	a, err := svc.Add(context.Background(), userID, "prod-1", 2, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 150000})
	require.NoError(t, err)
	b, err := svc.Add(context.Background(), userID, "prod-2", 1, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 425000})
	require.NoError(t, err)
	// A third line outside the selection must not count.
	_, err = svc.Add(context.Background(), userID, "prod-3", 9, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 999999})
	require.NoError(t, err)

	subtotal, err := svc.SelectionSubtotal(context.Background(), userID, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2*150000+425000), subtotal)
}

func TestCartRemovePaidItemsCapsAtPaidQuantity(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()
	projectID := uuid.New()

	// Checked out with quantity 2, then the user bumped the line to 5.
	line, err := svc.Add(context.Background(), userID, "prod-1", 2, projectID, "Living Room", models.ProductSnapshot{UnitPrice: 100})
	require.NoError(t, err)
	require.NoError(t, svc.SetQuantity(context.Background(), userID, line.ID, 5))

	items := []models.OrderItem{
		{ProductID: "prod-1", Quantity: 2, UnitPrice: 100, ProjectID: projectID, Area: "Living Room"},
	}
	require.NoError(t, svc.RemovePaidItems(context.Background(), userID, items))

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartRemovePaidItemsSkipsMissingLines(t *testing.T) {
	repo := &memCartRepo{}
	svc := NewCartService(repo, nil, nil)
	userID := uuid.New()

	keep, err := svc.Add(context.Background(), userID, "keep-me", 1, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 100})
	require.NoError(t, err)

	items := []models.OrderItem{
		{ProductID: "already-gone", Quantity: 1},
	}
	require.NoError(t, svc.RemovePaidItems(context.Background(), userID, items))

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, keep.ID, lines[0].ID)
}

func TestCartMutationsPublishCartUpdated(t *testing.T) {
	repo := &memCartRepo{}
	pub := &recordingPublisher{}
	svc := NewCartService(repo, nil, pub)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, "prod-1", 1, uuid.Nil, "", models.ProductSnapshot{UnitPrice: 100})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), userID, models.CartLineKey{ProductID: "prod-1"}))

	assert.Equal(t, []string{"cart.updated", "cart.updated"}, pub.names())
}
