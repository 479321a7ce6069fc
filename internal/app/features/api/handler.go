// internal/app/features/api/handler.go

// Package api is the JSON gateway. It authenticates requests, validates and
// sanitizes payloads, dispatches commands over the bus, and maps error
// kinds to HTTP statuses. Nothing below this package knows about HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/limits"
	"github.com/dalemusser/taskforge/internal/app/system/ratelimit"
	"github.com/dalemusser/taskforge/internal/bus"
	"go.uber.org/zap"
)

// Handler holds the gateway's dependencies.
type Handler struct {
	Bus        *bus.Bus
	LoginLimit *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs the gateway handler.
func NewHandler(b *bus.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		Bus:        b,
		LoginLimit: ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

// decodeBody parses a JSON request body into dst. Returns false after
// writing the error response when the body is unusable.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return h.decodeBodyLimit(w, r, dst, limits.MaxJSONBodySize)
}

func (h *Handler) decodeBodyLimit(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, apperr.Validation("request body is not valid JSON"))
		return false
	}
	return true
}
