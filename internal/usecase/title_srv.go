package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	GetTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, titleID string) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	filter := entity.TitleFilter{
		CategorySlug: req.Category,
		GenreSlug:    req.Genre,
		Name:         req.Name,
		Year:         req.Year,
	}

	titles, err := s.repo.Title.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	ids := make([]uuid.UUID, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	genresByTitle, err := s.repo.Genre.FindByTitleIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load title genres: %w", err)
	}

	categories := map[uuid.UUID]*entity.Category{}
	data := make([]response.TitleResponse, len(titles))
	for i, t := range titles {
		var category *entity.Category
		if t.CategoryID != nil {
			cached, ok := categories[*t.CategoryID]
			if !ok {
				cached, err = s.repo.Category.FindByID(ctx, *t.CategoryID)
				if err != nil {
					return nil, fmt.Errorf("load title category: %w", err)
				}
				categories[*t.CategoryID] = cached
			}
			category = cached
		}
		data[i] = response.TitleToResponse(t, category, genresByTitle[t.ID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *titleService) GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}
	return s.buildTitleResponse(ctx, title)
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &entity.Title{
		BaseNoDelete: entity.NewBaseNoDelete(),
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategoryID:   &category.ID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs(genres)); err != nil {
		if errors.Is(err, repository.ErrReference) {
			return nil, notFound("category or genre removed while creating title")
		}
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genres", len(genres)),
	)

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}

func (s *titleService) UpdateTitle(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	// nil keeps the current genre set
	var newGenreIDs []uuid.UUID
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		newGenreIDs = genreIDs(genres)
	}
	title.UpdatedAt = time.Now()

	if err := s.repo.Title.Update(ctx, title, newGenreIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("title %s", titleID)
		case errors.Is(err, repository.ErrReference):
			return nil, notFound("category or genre removed while updating title")
		}
		return nil, fmt.Errorf("update title: %w", err)
	}

	s.log.Info("Title updated", zap.String("title_id", title.ID.String()))
	return s.buildTitleResponse(ctx, title)
}

func (s *titleService) DeleteTitle(ctx context.Context, titleID string) error {
	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, title.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("title %s", titleID)
		}
		return fmt.Errorf("delete title: %w", err)
	}

	return nil
}

// ==================== HELPER METHODS ====================

// findTitle treats a malformed id like a missing title.
func findTitle(ctx context.Context, repo *repository.Repository, titleID string) (*entity.Title, error) {
	id, err := uuid.Parse(titleID)
	if err != nil {
		return nil, notFound("title %s", titleID)
	}

	title, err := repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, notFound("title %s", titleID)
	}
	return title, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, notFound("category %s", slug)
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	unique := slices.Clone(slugs)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	genres, err := s.repo.Genre.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	if len(genres) != len(unique) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		var missing []string
		for _, slug := range unique {
			if !found[slug] {
				missing = append(missing, slug)
			}
		}
		return nil, notFound("genre %s", strings.Join(missing, ", "))
	}

	return genres, nil
}

func (s *titleService) buildTitleResponse(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	var category *entity.Category
	if title.CategoryID != nil {
		var err error
		category, err = s.repo.Category.FindByID(ctx, *title.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("load title category: %w", err)
		}
	}

	genres, err := s.repo.Genre.FindByTitleID(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("load title genres: %w", err)
	}

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}

func genreIDs(genres []*entity.Genre) []uuid.UUID {
	ids := make([]uuid.UUID, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}
