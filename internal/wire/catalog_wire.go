package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCategory(r chi.Router, h *adaptor.CategoryHandler, authn, admin middlewareFunc) {
	r.Route("/categories", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", h.GetCategories)
		r.Get("/{slug}", h.GetCategory)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			r.Post("/", h.CreateCategory)
			r.Patch("/{slug}", h.UpdateCategory)
			r.Delete("/{slug}", h.DeleteCategory)
		})
	})
}

func wireGenre(r chi.Router, h *adaptor.GenreHandler, authn, admin middlewareFunc) {
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", h.GetGenres)
		r.Get("/{slug}", h.GetGenre)

		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			r.Post("/", h.CreateGenre)
			r.Patch("/{slug}", h.UpdateGenre)
			r.Delete("/{slug}", h.DeleteGenre)
		})
	})
}

// wireTitle is mounted under /titles.
func wireTitle(r chi.Router, h *adaptor.TitleHandler, authn, admin middlewareFunc) {
	r.Get("/", h.GetTitles) // ?category=movie&genre=drama&name=god&year=1972
	r.Get("/{title_id}", h.GetTitle)

	r.Group(func(r chi.Router) {
		r.Use(authn, admin)
		r.Post("/", h.CreateTitle)
		r.Patch("/{title_id}", h.UpdateTitle)
		r.Delete("/{title_id}", h.DeleteTitle)
	})
}
