package handlers

import "github.com/go-chi/chi/v5"

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/session", h.Login)    // POST /session
	r.Delete("/session", h.Logout) // DELETE /session
	r.Get("/state", h.State)       // GET /state
	r.Get("/notifications", h.Notifications)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks) // GET /tasks?status=&priority=&search=&sort=
		r.Post("/", h.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateTask)         // PUT /tasks/{id}
			r.Delete("/", h.DeleteTask)      // DELETE /tasks/{id}
			r.Patch("/toggle", h.ToggleTask) // PATCH /tasks/{id}/toggle
		})
	})

	r.Get("/dashboard", h.Dashboard) // GET /dashboard?status=&date=
	r.Get("/calendar", h.Calendar)   // GET /calendar?year=&month=
}
