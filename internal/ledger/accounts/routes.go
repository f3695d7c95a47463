package accounts

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/companies/{companyID}", h.List)
	r.Get("/companies/{companyID}/{accountID}", h.Get)
}
