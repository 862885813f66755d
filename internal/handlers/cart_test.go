package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/models"
	"design-commerce-backend/internal/services"
)

// stubCartRepo backs handler tests with an in-memory cart.
type stubCartRepo struct {
	lines []*models.CartLine
}

func (r *stubCartRepo) InsertLine(_ context.Context, line *models.CartLine) error {
	line.ID = uuid.New()
	line.CreatedAt = time.Now()
	line.UpdatedAt = line.CreatedAt
	copied := *line
	r.lines = append(r.lines, &copied)
	return nil
}

func (r *stubCartRepo) GetLine(_ context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	for _, l := range r.lines {
		if l.ID == lineID && l.UserID == userID {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubCartRepo) GetLineByKey(_ context.Context, userID uuid.UUID, key models.CartLineKey) (*models.CartLine, error) {
	for _, l := range r.lines {
		if l.UserID == userID && l.Key() == key {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubCartRepo) UpdateLineQuantity(_ context.Context, lineID uuid.UUID, quantity int) error {
	for _, l := range r.lines {
		if l.ID == lineID {
			l.Quantity = quantity
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *stubCartRepo) DeleteLine(_ context.Context, userID, lineID uuid.UUID) error {
	for i, l := range r.lines {
		if l.ID == lineID && l.UserID == userID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubCartRepo) DeleteLineByKey(_ context.Context, userID uuid.UUID, key models.CartLineKey) error {
	for i, l := range r.lines {
		if l.UserID == userID && l.Key() == key {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubCartRepo) ListLines(_ context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, l := range r.lines {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubCartRepo) ListLinesByIDs(_ context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error) {
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

func cartTestRouter(userID uuid.UUID, repo services.CartRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCartHandler(services.NewCartService(repo, nil, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
	})
	router.GET("/cart", handler.GetCart)
	router.POST("/cart/items", handler.AddItem)
	router.PATCH("/cart/items/:line_id", handler.UpdateItem)
	router.DELETE("/cart/items", handler.RemoveItem)
	return router
}

func TestCartHandlerAddAndGet(t *testing.T) {
	userID := uuid.New()
	router := cartTestRouter(userID, &stubCartRepo{})

	body, _ := json.Marshal(models.AddCartItemRequest{
		ProductID: "prod-1",
		Quantity:  2,
		Area:      "Living Room",
		UnitPrice: 150000,
		Title:     "Accent Chair",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/cart", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "prod-1", resp.Lines[0].ProductID)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, int64(300000), resp.Subtotal)
}

func TestCartHandlerAddRejectsZeroQuantity(t *testing.T) {
	router := cartTestRouter(uuid.New(), &stubCartRepo{})

	body, _ := json.Marshal(models.AddCartItemRequest{ProductID: "prod-1", Quantity: 0, UnitPrice: 100})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandlerAddInvalidProjectID(t *testing.T) {
	router := cartTestRouter(uuid.New(), &stubCartRepo{})

	body, _ := json.Marshal(models.AddCartItemRequest{ProductID: "prod-1", Quantity: 1, ProjectID: "not-a-uuid", UnitPrice: 100})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandlerUpdateUnknownLine(t *testing.T) {
	router := cartTestRouter(uuid.New(), &stubCartRepo{})

	body, _ := json.Marshal(models.UpdateCartItemRequest{Quantity: 3})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/cart/items/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandlerRemoveRequiresProductID(t *testing.T) {
	router := cartTestRouter(uuid.New(), &stubCartRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/cart/items", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandlerNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCartHandler(nil)
	router := gin.New()
	router.GET("/cart", handler.GetCart)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCartHandlerMissingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCartHandler(services.NewCartService(&stubCartRepo{}, nil, nil))
	router := gin.New()
	router.GET("/cart", handler.GetCart)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
