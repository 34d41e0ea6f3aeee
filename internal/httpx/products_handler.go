package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/catalog"
	"github.com/ariefcatur/artisan-market/internal/identity"
	"github.com/ariefcatur/artisan-market/internal/money"
)

type ProductsHandler struct {
	Catalog *catalog.Repo
	Users   *identity.Repo
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.ProductFilter{
		ListParams: listParams(r),
		ArtisanID:  q.Get("artisan"),
	}
	if raw := q.Get("price"); raw != "" {
		price, err := money.Parse(raw)
		if err != nil {
			badRequest(w, "invalid price filter")
			return
		}
		filter.Price = &price
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, count, err := h.Catalog.ListProducts(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, count, products)
}

type productCreateReq struct {
	Artisan string `json:"artisan"`
	catalog.ProductInput
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req productCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// products always land in the caller's own artisan profile
	a, err := h.Catalog.ArtisanByUser(ctx, userID)
	if err != nil {
		writeError(w, apperr.New(apperr.KindPermission, "an artisan profile is required to sell products"))
		return
	}
	if req.Artisan != "" && req.Artisan != a.ID {
		writeError(w, apperr.Wrap(apperr.KindPermission, catalog.ErrNotOwner))
		return
	}

	p, err := h.Catalog.CreateProduct(ctx, a.ID, req.ProductInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// mutable loads the product and checks the caller owns its artisan, or is
// staff.
func (h *ProductsHandler) mutable(ctx context.Context, r *http.Request) (*catalog.Product, error) {
	userID, _ := auth.UserID(r.Context())
	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	a, err := h.Catalog.GetArtisan(ctx, p.ArtisanID)
	if err != nil {
		return nil, err
	}
	if a.UserID == userID {
		return p, nil
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err == nil && u.IsStaff {
		return p, nil
	}
	return nil, apperr.Wrap(apperr.KindPermission, catalog.ErrNotOwner)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.mutable(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var up catalog.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		badRequest(w, "invalid json")
		return
	}
	out, err := h.Catalog.UpdateProduct(ctx, p.ID, up)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.mutable(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Catalog.DeleteProduct(ctx, p.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
