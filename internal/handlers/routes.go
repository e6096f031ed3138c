package handlers

import "github.com/go-chi/chi/v5"

func (h *DeadlineHandler) Routes(r chi.Router) {
	r.Route("/deadlines", func(r chi.Router) {
		r.Get("/", h.ListDeadlines) // GET /deadlines
		r.Post("/", h.PostDeadline) // POST /deadlines

		r.Get("/deleted", h.ListDeleted) // GET /deadlines/deleted

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetDeadline)       // GET /deadlines/{id}
			r.Put("/", h.UpdateDeadline)    // PUT /deadlines/{id}
			r.Delete("/", h.DeleteDeadline) // DELETE /deadlines/{id}

			r.Post("/complete", h.CompleteDeadline) // POST /deadlines/{id}/complete
			r.Post("/restore", h.RestoreDeadline)   // POST /deadlines/{id}/restore
		})
	})

	r.Get("/dashboard", h.Dashboard)
	r.Get("/calendar", h.Calendar)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.Notifications)
		r.Post("/{id}/dismiss", h.DismissNotification)
	})

	r.Get("/health", h.HealthCheck)
}
