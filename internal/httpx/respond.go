package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

// errorBody is the wire shape for every failure:
// {"status":"error","message":...,"errors":{...}}
type errorBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors,omitempty"`
}

// pageBody wraps list results: {"count":N,"results":[...]}
type pageBody struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writePage(w http.ResponseWriter, count int, results any) {
	writeJSON(w, http.StatusOK, pageBody{Count: count, Results: results})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindBusinessRule:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error taxonomy onto status codes. Untagged errors are
// storage/internal faults: logged, and hidden behind a generic message.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	code := statusFor(kind)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "internal server error"
	}
	writeJSON(w, code, errorBody{Status: "error", Message: msg, Errors: apperr.FieldsOf(err)})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Status: "error", Message: msg})
}
