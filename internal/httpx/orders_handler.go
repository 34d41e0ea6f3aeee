package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/identity"
	kafkax "github.com/ariefcatur/artisan-market/internal/kafka"
	"github.com/ariefcatur/artisan-market/internal/orders"
)

// publisher is what the handler needs from the kafka producer.
type publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Engine   *orders.Engine
	Users    *identity.Repo
	Producer publisher
	Service  string
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.list)
	r.Post("/orders", h.create)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

type createOrderReq struct {
	Items       []orders.LineInput `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.PlaceOrder(ctx, userID, req.Items, req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(orders.NewOrderCreatedPayload(o)),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, o)
}

// list returns only the caller's own orders, newest first.
func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Engine.ListForUser(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if s := orders.Status(r.URL.Query().Get("status")); s != "" {
		filtered := out[:0]
		for _, o := range out {
			if o.Status == s {
				filtered = append(filtered, o)
			}
		}
		out = filtered
	}
	writePage(w, len(out), out)
}

type statusReq struct {
	Status orders.Status `json:"status"`
}

// updateStatus is the external admin action behind order state changes;
// regular users cannot move an order out of pending.
func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || !u.IsStaff {
		writeError(w, apperr.New(apperr.KindPermission, "staff only"))
		return
	}

	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	o, err := h.Engine.SetStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
