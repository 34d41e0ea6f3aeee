package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/artisan-market/internal/auth"
	"github.com/ariefcatur/artisan-market/internal/identity"
)

type AuthHandler struct {
	Users  *identity.Repo
	Tokens *auth.Store
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
}

type registerReq struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func validateRegister(req registerReq) map[string]any {
	fields := map[string]any{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fields["email"] = "a valid email address is required"
	}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if req.Password != req.PasswordConfirm {
		fields["password_confirm"] = "passwords do not match"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if fields := validateRegister(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Status: "error", Message: "validation error", Errors: fields})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Users.Create(ctx, req.Email, req.Name, hash)
	if err != nil {
		writeError(w, err)
		return
	}
	pair, err := h.Tokens.Issue(ctx, u.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "user registered successfully",
		"data": map[string]any{
			"user":   u,
			"tokens": pair,
		},
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	pair, err := h.Tokens.Issue(ctx, u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Tokens.Refresh(ctx, req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
