package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/catalog"
)

type ArtisansHandler struct {
	Catalog *catalog.Repo
}

func (h *ArtisansHandler) Register(r chi.Router) {
	r.Route("/artisans", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func listParams(r *http.Request) catalog.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return catalog.ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Page:     page,
		PageSize: size,
	}
}

func (h *ArtisansHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	artisans, count, err := h.Catalog.ListArtisans(ctx, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, count, artisans)
}

func (h *ArtisansHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var in catalog.ArtisanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.Catalog.CreateArtisan(ctx, userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ArtisansHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	a, err := h.Catalog.GetArtisan(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// owned loads the artisan and checks the caller owns it.
func (h *ArtisansHandler) owned(ctx context.Context, r *http.Request) (*catalog.Artisan, error) {
	userID, _ := auth.UserID(r.Context())
	a, err := h.Catalog.GetArtisan(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, apperr.Wrap(apperr.KindPermission, catalog.ErrNotOwner)
	}
	return a, nil
}

func (h *ArtisansHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.owned(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var up catalog.ArtisanUpdate
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		badRequest(w, "invalid json")
		return
	}
	out, err := h.Catalog.UpdateArtisan(ctx, a.ID, up)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ArtisansHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.owned(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Catalog.DeleteArtisan(ctx, a.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
