package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
)

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

// writeServiceError maps a service error to a status code. Unknown errors
// are logged and reported without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorF(err),
		)
		writeJSONError(w, status, message, "")
		return
	}

	writeJSONError(w, status, message, err.Error())
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "sign in required"
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrOrderConflict),
		errors.Is(err, domain.ErrReconcileInProgress):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "cart is empty"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
