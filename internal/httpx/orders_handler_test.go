package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/orders"
)

type stubStore struct {
	mu        sync.Mutex
	inventory map[string]int
	created   []*orders.Order
}

func (s *stubStore) CreateOrder(ctx context.Context, buyerID string, items []orders.LineInput, total decimal.Decimal, demand map[string]int) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range demand {
		inv, ok := s.inventory[id]
		if !ok {
			return nil, apperr.Wrap(apperr.KindBusinessRule, fmt.Errorf("%w: %s", orders.ErrProductNotFound, id))
		}
		if inv < qty {
			return nil, apperr.Wrap(apperr.KindBusinessRule,
				fmt.Errorf("%w for product %s: requested %d, available %d", orders.ErrInsufficientInventory, id, qty, inv)).
				WithFields(map[string]any{"product": id, "requested": qty, "available": inv})
		}
	}
	for id, qty := range demand {
		s.inventory[id] -= qty
	}
	o := &orders.Order{
		ID:          uuid.NewString(),
		UserID:      buyerID,
		Status:      orders.StatusPending,
		TotalAmount: total,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for _, it := range items {
		o.Items = append(o.Items, orders.Item{
			ID: uuid.NewString(), OrderID: o.ID, ProductID: it.ProductID,
			Quantity: it.Quantity, Price: it.Price,
		})
	}
	s.created = append(s.created, o)
	return o, nil
}

func (s *stubStore) OrdersByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []orders.Order{}
	for _, o := range s.created {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, orderID string, next orders.Status) (*orders.Order, error) {
	return nil, apperr.Wrap(apperr.KindNotFound, orders.ErrOrderNotFound)
}

type capturePublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *capturePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, value)
}

func newOrdersRig(inventory map[string]int) (*chi.Mux, *stubStore, *capturePublisher, string) {
	store := &stubStore{inventory: inventory}
	pub := &capturePublisher{}
	h := &OrdersHandler{
		Engine:   &orders.Engine{Store: store},
		Producer: pub,
		Service:  "marketplace-api-test",
	}
	userID := uuid.NewString()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
		})
	})
	h.Register(r)
	return r, store, pub, userID
}

func postOrder(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderHTTP(t *testing.T) {
	productID := uuid.NewString()
	r, store, pub, userID := newOrdersRig(map[string]int{productID: 10})

	body := fmt.Sprintf(`{"items":[{"product":%q,"quantity":2,"price":"29.99"}],"total_amount":"59.98"}`, productID)
	rec := postOrder(r, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, orders.StatusPending, got.Status)
	require.Len(t, got.Items, 1)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("59.98")))
	assert.Equal(t, 8, store.inventory[productID])

	// the order.created event went out
	require.Len(t, pub.messages, 1)
	var env orders.Envelope
	require.NoError(t, json.Unmarshal(pub.messages[0], &env))
	assert.Equal(t, orders.EventOrderCreated, env.EventType)
	assert.Equal(t, got.ID, env.CorrelationID)
}

func TestCreateOrderHTTPInsufficientInventory(t *testing.T) {
	productID := uuid.NewString()
	r, store, pub, _ := newOrdersRig(map[string]int{productID: 1})

	body := fmt.Sprintf(`{"items":[{"product":%q,"quantity":5,"price":"10.00"}],"total_amount":"50.00"}`, productID)
	rec := postOrder(r, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var eb errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
	assert.Equal(t, "error", eb.Status)
	assert.EqualValues(t, 5, eb.Errors["requested"])
	assert.EqualValues(t, 1, eb.Errors["available"])

	assert.Equal(t, 1, store.inventory[productID], "no decrement on rejection")
	assert.Empty(t, pub.messages, "no event for a rejected order")
}

func TestCreateOrderHTTPTotalMismatch(t *testing.T) {
	productID := uuid.NewString()
	r, store, _, _ := newOrdersRig(map[string]int{productID: 10})

	body := fmt.Sprintf(`{"items":[{"product":%q,"quantity":2,"price":"29.99"}],"total_amount":"60.00"}`, productID)
	rec := postOrder(r, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_amount")
	assert.Equal(t, 10, store.inventory[productID])
}

func TestCreateOrderHTTPBadJSON(t *testing.T) {
	r, _, _, _ := newOrdersRig(map[string]int{})
	rec := postOrder(r, `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json")
}

func TestListOrdersHTTP(t *testing.T) {
	productID := uuid.NewString()
	r, _, _, _ := newOrdersRig(map[string]int{productID: 10})

	body := fmt.Sprintf(`{"items":[{"product":%q,"quantity":1,"price":"29.99"}],"total_amount":"29.99"}`, productID)
	require.Equal(t, http.StatusCreated, postOrder(r, body).Code)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Count   int            `json:"count"`
		Results []orders.Order `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
}
