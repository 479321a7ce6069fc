// internal/app/features/api/projects.go
package api

import (
	"net/http"
	"time"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskforge/internal/app/system/inputval"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pathID parses a hex ObjectID from the named URL parameter. Returns false
// after writing the error response when the value is malformed.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		h.writeError(w, apperr.Validation("%s is not a valid id", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type projectResponse struct {
	*models.Project
	Members   []memberResponse `json:"members"`
	Tasks     []*models.Task   `json:"tasks,omitempty"`
	TaskCount int64            `json:"task_count"`
}

func toProjectResponse(d *messages.ProjectDetail) projectResponse {
	members := make([]memberResponse, len(d.Members))
	for i, m := range d.Members {
		members[i] = memberResponse{
			UserID:   m.Membership.UserID.Hex(),
			Role:     m.Membership.Role,
			JoinedAt: m.Membership.JoinedAt,
		}
		if m.User != nil {
			members[i].Name = m.User.Name
			members[i].Email = m.User.Email
		}
	}
	return projectResponse{
		Project:   d.Project,
		Members:   members,
		Tasks:     d.Tasks,
		TaskCount: d.TaskCount,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200" label:"Project name"`
	Description string `json:"description" validate:"max=2000" label:"Description"`
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdCreateProject, messages.CreateProject{
		OwnerID:     actor(r),
		Name:        htmlsanitize.Text(req.Name),
		Description: htmlsanitize.Text(req.Description),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toProjectResponse(result.(*messages.ProjectDetail)))
}

// ListProjects handles GET /projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	result, err := h.Bus.Request(r.Context(), messages.CmdGetUserProjects, messages.GetUserProjects{
		UserID: actor(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	details := result.([]*messages.ProjectDetail)
	out := make([]projectResponse, len(details))
	for i, d := range details {
		out[i] = toProjectResponse(d)
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetProject handles GET /projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdGetProject, messages.GetProject{
		ProjectID: id,
		ActorID:   actor(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toProjectResponse(result.(*messages.ProjectDetail)))
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// UpdateProject handles PATCH /projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil && req.Description == nil && req.Status == nil {
		h.writeError(w, apperr.Validation("nothing to update"))
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			h.writeError(w, apperr.Validation("Project name is required."))
			return
		}
		clean := htmlsanitize.Text(*req.Name)
		req.Name = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Text(*req.Description)
		req.Description = &clean
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdUpdateProject, messages.UpdateProject{
		ProjectID:   id,
		ActorID:     actor(r),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.Project))
}

// DeleteProject handles DELETE /projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.Bus.Request(r.Context(), messages.CmdDeleteProject, messages.DeleteProject{
		ProjectID: id,
		ActorID:   actor(r),
	}); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required,objectid" label:"User id"`
	Role   string `json:"role" validate:"required,oneof=ADMIN MEMBER VIEWER" label:"Role"`
}

// AddMember handles POST /projects/{id}/members.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}
	targetID, _ := primitive.ObjectIDFromHex(req.UserID)

	result, err := h.Bus.Request(r.Context(), messages.CmdAddMember, messages.AddMember{
		ProjectID: projectID,
		ActorID:   actor(r),
		TargetID:  targetID,
		Role:      req.Role,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	d := result.(*messages.MemberDetail)
	resp := memberResponse{
		UserID:   d.Membership.UserID.Hex(),
		Role:     d.Membership.Role,
		JoinedAt: d.Membership.JoinedAt,
	}
	if d.User != nil {
		resp.Name = d.User.Name
		resp.Email = d.User.Email
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// GetMembers handles GET /projects/{id}/members.
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdGetMembers, messages.GetMembers{
		ProjectID: projectID,
		ActorID:   actor(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	details := result.([]messages.MemberDetail)
	out := make([]memberResponse, len(details))
	for i, d := range details {
		out[i] = memberResponse{
			UserID:   d.Membership.UserID.Hex(),
			Role:     d.Membership.Role,
			JoinedAt: d.Membership.JoinedAt,
		}
		if d.User != nil {
			out[i].Name = d.User.Name
			out[i].Email = d.User.Email
		}
	}
	h.writeJSON(w, http.StatusOK, out)
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MEMBER VIEWER" label:"Role"`
}

// UpdateMemberRole handles PATCH /projects/{id}/members/{userID}.
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req updateMemberRoleRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdUpdateMemberRole, messages.UpdateMemberRole{
		ProjectID: projectID,
		ActorID:   actor(r),
		TargetID:  targetID,
		Role:      req.Role,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.Membership))
}

// RemoveMember handles DELETE /projects/{id}/members/{userID}.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}

	if _, err := h.Bus.Request(r.Context(), messages.CmdRemoveMember, messages.RemoveMember{
		ProjectID: projectID,
		ActorID:   actor(r),
		TargetID:  targetID,
	}); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
