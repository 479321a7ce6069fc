// internal/app/features/api/assistant.go
package api

import (
	"net/http"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskforge/internal/app/system/inputval"
	"github.com/dalemusser/taskforge/internal/app/system/limits"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	Message   string `json:"message" validate:"required,max=10000" label:"Message"`
	ProjectID string `json:"project_id" validate:"objectid" label:"Project id"`
}

// Chat handles POST /ai/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdChat, messages.Chat{
		Message:   req.Message,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*messages.ChatResult))
}

// GetContext handles GET /ai/context/{sourceType}/{sourceID}.
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	result, err := h.Bus.Request(r.Context(), messages.CmdGetContext, messages.GetContext{
		SourceID:   chi.URLParam(r, "sourceID"),
		SourceType: chi.URLParam(r, "sourceType"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.AIContext))
}

type upsertContextRequest struct {
	SourceID   string `json:"source_id" validate:"required,max=200" label:"Source id"`
	SourceType string `json:"source_type" validate:"required,max=100" label:"Source type"`
	Content    string `json:"content" validate:"required" label:"Content"`
}

// UpsertContext handles PUT /ai/context.
func (h *Handler) UpsertContext(w http.ResponseWriter, r *http.Request) {
	var req upsertContextRequest
	if !h.decodeBodyLimit(w, r, &req, limits.MaxContextContentSize) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdUpsertContext, messages.UpsertContext{
		SourceID:   req.SourceID,
		SourceType: req.SourceType,
		Content:    htmlsanitize.Sanitize(req.Content),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.AIContext))
}

// DeleteContext handles DELETE /ai/context/{sourceType}/{sourceID}.
func (h *Handler) DeleteContext(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Bus.Request(r.Context(), messages.CmdDeleteContext, messages.DeleteContext{
		SourceID:   chi.URLParam(r, "sourceID"),
		SourceType: chi.URLParam(r, "sourceType"),
	}); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
