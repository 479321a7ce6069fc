// internal/app/features/api/routes.go
package api

import "github.com/go-chi/chi/v5"

// Routes returns the gateway's router. Registration and login are public;
// everything else sits behind bearer-token auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/auth/me", h.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProject)
				r.Patch("/", h.UpdateProject)
				r.Delete("/", h.DeleteProject)

				r.Get("/members", h.GetMembers)
				r.Post("/members", h.AddMember)
				r.Patch("/members/{userID}", h.UpdateMemberRole)
				r.Delete("/members/{userID}", h.RemoveMember)

				r.Get("/tasks", h.ListTasks)
				r.Post("/tasks", h.CreateTask)
			})
		})

		r.Patch("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		r.Post("/ai/chat", h.Chat)
		r.Put("/ai/context", h.UpsertContext)
		r.Get("/ai/context/{sourceType}/{sourceID}", h.GetContext)
		r.Delete("/ai/context/{sourceType}/{sourceID}", h.DeleteContext)
	})

	return r
}
