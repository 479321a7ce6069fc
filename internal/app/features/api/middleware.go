// internal/app/features/api/middleware.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/messages"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ctxKey int

const actorKey ctxKey = iota

// RequireAuth resolves the bearer token to a user id and stores it in the
// request context. Requests without a valid token stop here with 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.writeError(w, apperr.Auth("missing bearer token"))
			return
		}

		result, err := h.Bus.Request(r.Context(), messages.CmdVerify, messages.Verify{Token: token})
		if err != nil {
			h.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, result.(primitive.ObjectID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actor returns the authenticated user id placed by RequireAuth.
func actor(r *http.Request) primitive.ObjectID {
	id, _ := r.Context().Value(actorKey).(primitive.ObjectID)
	return id
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
