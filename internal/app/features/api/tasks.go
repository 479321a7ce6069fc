// internal/app/features/api/tasks.go
package api

import (
	"net/http"
	"time"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskforge/internal/app/system/inputval"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=500" label:"Title"`
	Description string     `json:"description" validate:"max=5000" label:"Description"`
	Status      string     `json:"status" validate:"oneof=TODO IN_PROGRESS DONE" label:"Status"`
	Priority    string     `json:"priority" validate:"oneof=LOW MEDIUM HIGH" label:"Priority"`
	AssigneeID  string     `json:"assignee_id" validate:"objectid" label:"Assignee id"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateTask handles POST /projects/{id}/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req createTaskRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	cmd := messages.CreateTask{
		ProjectID:   projectID,
		ActorID:     actor(r),
		Title:       htmlsanitize.Text(req.Title),
		Description: htmlsanitize.Text(req.Description),
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID != "" {
		id, _ := primitive.ObjectIDFromHex(req.AssigneeID)
		cmd.AssigneeID = &id
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdCreateTask, cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result.(*models.Task))
}

// ListTasks handles GET /projects/{id}/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdGetProjectTasks, messages.GetProjectTasks{
		ProjectID: projectID,
		ActorID:   actor(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.([]models.Task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"` // empty string clears the assignee
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due_date"`
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	cmd := messages.UpdateTask{
		TaskID:       taskID,
		ActorID:      actor(r),
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDue,
	}
	if req.Title != nil {
		if *req.Title == "" {
			h.writeError(w, apperr.Validation("Title is required."))
			return
		}
		clean := htmlsanitize.Text(*req.Title)
		cmd.Title = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Text(*req.Description)
		cmd.Description = &clean
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			cmd.ClearAssignee = true
		} else {
			id, err := primitive.ObjectIDFromHex(*req.AssigneeID)
			if err != nil {
				h.writeError(w, apperr.Validation("Assignee id must be a valid id."))
				return
			}
			cmd.AssigneeID = &id
		}
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdUpdateTask, cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.Task))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.Bus.Request(r.Context(), messages.CmdDeleteTask, messages.DeleteTask{
		TaskID:  taskID,
		ActorID: actor(r),
	}); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
