package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

type fakeAuthenticator struct {
	tokens map[string]string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, access string) (string, error) {
	if id, ok := f.tokens[access]; ok {
		return id, nil
	}
	return "", apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken)
}

func run(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	a := &fakeAuthenticator{tokens: map[string]string{"tok-1": "user-1"}}

	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	Middleware(a)(next).ServeHTTP(rec, req)
	return rec, gotUser
}

func TestMiddlewareValidToken(t *testing.T) {
	rec, user := run(t, "Bearer tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", user)
}

func TestMiddlewareLowercaseScheme(t *testing.T) {
	rec, user := run(t, "bearer tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", user)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	rec, user := run(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, user)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestMiddlewareUnknownToken(t *testing.T) {
	rec, user := run(t, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, user)
}

func TestUserIDAbsent(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)
}
