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

	"go.uber.org/zap"
)

type GenreService interface {
	GetGenres(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	GetGenre(ctx context.Context, slug string) (*response.GenreResponse, error)
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	UpdateGenre(ctx context.Context, slug string, req *request.GenreUpdateRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	log       *zap.Logger
}

func NewGenreService(genreRepo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		log:       log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) GetGenres(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	genres, err := s.genreRepo.FindAll(ctx, req.Search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.genreRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	data := make([]response.GenreResponse, len(genres))
	for i, c := range genres {
		data[i] = response.GenreToResponse(c)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *genreService) find(ctx context.Context, slug string) (*entity.Genre, error) {
	genre, err := s.genreRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find genre: %w", err)
	}
	if genre == nil {
		return nil, notFound("genre %s", slug)
	}
	return genre, nil
}

func (s *genreService) GetGenre(ctx context.Context, slug string) (*response.GenreResponse, error) {
	genre, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genre := &entity.Genre{
		BaseNoDelete: entity.NewBaseNoDelete(),
		Name:         req.Name,
		Slug:         req.Slug,
	}

	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if isDuplicate(err) {
			return nil, conflict("genre with slug %s already exists", req.Slug)
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) UpdateGenre(ctx context.Context, slug string, req *request.GenreUpdateRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genre, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		genre.Name = *req.Name
	}
	if req.Slug != nil {
		genre.Slug = *req.Slug
	}
	genre.UpdatedAt = time.Now()

	if err := s.genreRepo.Update(ctx, genre); err != nil {
		switch {
		case isDuplicate(err):
			return nil, conflict("genre with slug %s already exists", genre.Slug)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("genre %s", slug)
		}
		return nil, fmt.Errorf("update genre: %w", err)
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	genre, err := s.find(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.genreRepo.Delete(ctx, genre.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("genre %s", slug)
		}
		return fmt.Errorf("delete genre: %w", err)
	}

	s.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}
