package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskforge/internal/app/system/timeouts"
	"github.com/dalemusser/taskforge/internal/bus"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Bus    *bus.Bus
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, b *bus.Bus, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Bus: b, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Services string `json:"services"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "services":"ok" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Services: "ok",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Services = "unknown"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	// Round-trip through the command router; a wedged bus shows up here.
	if _, err := h.Bus.Request(ctx, messages.CmdHealthCheck, messages.HealthCheck{}); err != nil {
		h.Log.Error("health-check: command round-trip failed", zap.Error(err))
		resp.Services = "degraded"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
