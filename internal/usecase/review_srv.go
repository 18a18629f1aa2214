package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, actor Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, title.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get title reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("count title reviews: %w", err)
	}

	data := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		data[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrAuth
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, title.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, conflict("you have already reviewed this title")
	}

	review := &entity.Review{
		BaseNoDelete: entity.NewBaseNoDelete(),
		TitleID:      title.ID,
		AuthorID:     actor.ID,
		Text:         req.Text,
		Score:        req.Score,
	}

	// The unique constraint still guards concurrent submissions.
	if err := s.repo.Review.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, conflict("you have already reviewed this title")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	author, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load review author: %w", err)
	}
	if author != nil {
		review.AuthorUsername = author.Username
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("author_id", actor.ID.String()),
		zap.String("title_id", title.ID.String()),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrAuth
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(review.AuthorID) {
		s.log.Warn("Review update denied",
			zap.String("review_id", reviewID),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, permissionDenied("only the author, a moderator or an admin can edit this review")
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("review %s", reviewID)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, titleID, reviewID string) error {
	if actor.ID == uuid.Nil {
		return ErrAuth
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return err
	}

	if !actor.CanModify(review.AuthorID) {
		s.log.Warn("Review delete denied",
			zap.String("review_id", reviewID),
			zap.String("actor_id", actor.ID.String()),
		)
		return permissionDenied("only the author, a moderator or an admin can delete this review")
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("review %s", reviewID)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actor.ID.String()),
		zap.String("title_id", review.TitleID.String()),
	)

	return nil
}

// ==================== HELPER METHODS ====================

// findReview resolves a review only under the title it belongs to.
func findReview(ctx context.Context, repo *repository.Repository, titleID, reviewID string) (*entity.Review, error) {
	title, err := findTitle(ctx, repo, titleID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, notFound("review %s", reviewID)
	}

	review, err := repo.Review.FindByID(ctx, title.ID, id)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, notFound("review %s", reviewID)
	}
	return review, nil
}
