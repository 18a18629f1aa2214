package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures user management routes with role-based access control
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authn, admin middlewareFunc) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authn)

		// ==================== PROTECTED USER ROUTES ====================
		// Registered before /{username}; "me" is a reserved username.
		r.Get("/me", userHandler.GetMe)
		r.Patch("/me", userHandler.UpdateMe)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/", userHandler.GetAllUsers) // GET /api/v1/users?page=1&per_page=10&search=bob
			r.Post("/", userHandler.CreateUser)
			r.Get("/{username}", userHandler.GetUser)
			r.Patch("/{username}", userHandler.UpdateUser)
			r.Delete("/{username}", userHandler.DeleteUser)
		})
	})
}
