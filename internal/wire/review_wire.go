package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview is mounted under /titles/{title_id}/reviews.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, authn middlewareFunc) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/", reviewHandler.GetTitleReviews)
	r.Get("/{review_id}", reviewHandler.GetReview)

	// ==================== PROTECTED ROUTES (require auth) ====================
	// Ownership is checked in the service: author, moderator or admin.
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/", reviewHandler.CreateReview)
		r.Patch("/{review_id}", reviewHandler.UpdateReview)
		r.Delete("/{review_id}", reviewHandler.DeleteReview)
	})
}

// wireComment is mounted under .../reviews/{review_id}/comments.
func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, authn middlewareFunc) {
	r.Get("/", commentHandler.GetReviewComments)
	r.Get("/{comment_id}", commentHandler.GetComment)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/", commentHandler.CreateComment)
		r.Patch("/{comment_id}", commentHandler.UpdateComment)
		r.Delete("/{comment_id}", commentHandler.DeleteComment)
	})
}
