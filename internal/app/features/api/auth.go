// internal/app/features/api/auth.go
package api

import (
	"net/http"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskforge/internal/app/system/inputval"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.uber.org/zap"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Name     string `json:"name" validate:"required,max=200" label:"Name"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}
	if len(req.Password) < 8 {
		h.writeError(w, apperr.Validation("Password must be at least 8 characters."))
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdRegister, messages.Register{
		Email:    req.Email,
		Name:     htmlsanitize.Text(req.Name),
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	res := result.(*messages.AuthResult)
	h.writeJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Login handles POST /auth/login. Attempts are rate limited per IP and per
// email before credentials are checked.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if v := inputval.Validate(&req); v.HasErrors() {
		h.writeError(w, apperr.Validation("%s", v.All()))
		return
	}

	if ok, reason := h.LoginLimit.Check(r, req.Email); !ok {
		h.Log.Warn("login rate limited", zap.String("reason", reason))
		h.writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many login attempts, try again later"})
		return
	}

	result, err := h.Bus.Request(r.Context(), messages.CmdLogin, messages.Login{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.LoginLimit.ResetEmail(req.Email)

	res := result.(*messages.AuthResult)
	h.writeJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

// Me handles GET /auth/me, the token sanity check.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	result, err := h.Bus.Request(r.Context(), messages.CmdTestAuth, messages.TestAuth{Token: bearerToken(r)})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.(*models.User))
}
