package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperr.New(apperr.KindBusinessRule, "insufficient inventory").
		WithFields(map[string]any{"requested": 10, "available": 8})
	writeError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "insufficient inventory", body.Message)
	assert.EqualValues(t, 10, body.Errors["requested"])
	assert.EqualValues(t, 8, body.Errors["available"])
}

func TestWriteErrorStatusCodes(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindBusinessRule, http.StatusBadRequest},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindPermission, http.StatusForbidden},
		{apperr.KindUnauthorized, http.StatusUnauthorized},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, apperr.New(c.kind, "x"))
		assert.Equal(t, c.want, rec.Code, string(c.kind))
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestWritePage(t *testing.T) {
	rec := httptest.NewRecorder()
	writePage(rec, 42, []string{"a", "b"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["count"])
	results, ok := body["results"].([]any)
	require.True(t, ok, "list responses carry a results key")
	assert.Len(t, results, 2)
}
