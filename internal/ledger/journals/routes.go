package journals

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/companies/{companyID}", h.List)
	r.Get("/companies/{companyID}/{journalID}", h.Get)
	r.Delete("/companies/{companyID}/{journalID}", h.Delete)
	r.Post("/companies/{companyID}/{journalID}/reverse", h.Reverse)
}
