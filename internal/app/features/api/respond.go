// internal/app/features/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.Log.Error("response encoding failed", zap.Error(err))
		}
	}
}

// writeError maps an error kind to its HTTP status. Unclassified errors are
// logged in full and surface as an opaque 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		h.Log.Error("unclassified error reached the gateway", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}

	var ae *apperr.Error
	msg := err.Error()
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	h.writeJSON(w, status, errorBody{Error: msg})
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindAccessDenied: http.StatusForbidden,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindValidation:   http.StatusUnprocessableEntity,
	apperr.KindAuth:         http.StatusUnauthorized,
	apperr.KindInference:    http.StatusBadGateway,
	apperr.KindUnavailable:  http.StatusServiceUnavailable,
}
