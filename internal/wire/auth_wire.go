package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	// ==================== PUBLIC ROUTES ====================
	// Rate limited per client IP; codes are guessable only by brute force.
	r.With(limiter.Middleware).Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/token", authHandler.Token)
	})
}
