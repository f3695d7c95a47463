package ap

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/companies/{companyID}", h.List)
	r.Get("/companies/{companyID}/aging", h.Aging)
	r.Get("/companies/{companyID}/{billID}", h.Get)
	r.Delete("/companies/{companyID}/{billID}", h.Delete)
}
