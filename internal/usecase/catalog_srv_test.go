package usecase

import (
	"context"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCatalog(t *testing.T, s *memStore) {
	t.Helper()
	for _, c := range []struct{ name, slug string }{{"Movie", "movie"}, {"Book", "book"}} {
		cat := &entity.Category{BaseNoDelete: entity.NewBaseNoDelete(), Name: c.name, Slug: c.slug}
		s.categories[cat.ID] = cat
	}
	for _, g := range []struct{ name, slug string }{{"Drama", "drama"}, {"Comedy", "comedy"}} {
		genre := &entity.Genre{BaseNoDelete: entity.NewBaseNoDelete(), Name: g.name, Slug: g.slug}
		s.genres[genre.ID] = genre
	}
}

func TestCategoryDuplicateSlug(t *testing.T) {
	repo, _ := newMemRepository()
	svc := NewCategoryService(repo.Category, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &request.CategoryRequest{Name: "Movie", Slug: "movie"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, &request.CategoryRequest{Name: "Films", Slug: "movie"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateCategory(ctx, &request.CategoryRequest{Name: "Films", Slug: "bad slug"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenreLifecycle(t *testing.T) {
	repo, _ := newMemRepository()
	svc := NewGenreService(repo.Genre, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateGenre(ctx, &request.GenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	resp, err := svc.UpdateGenre(ctx, "drama", &request.GenreUpdateRequest{Name: strPtr("Melodrama")})
	require.NoError(t, err)
	assert.Equal(t, "Melodrama", resp.Name)
	assert.Equal(t, "drama", resp.Slug)

	list, err := svc.GetGenres(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10, Search: "melo"})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)

	require.NoError(t, svc.DeleteGenre(ctx, "drama"))
	_, err = svc.GetGenre(ctx, "drama")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTitleResolvesReferences(t *testing.T) {
	repo, store := newMemRepository()
	seedCatalog(t, store)
	svc := NewTitleService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.CreateTitle(ctx, &request.TitleRequest{
		Name:     "The Godfather",
		Year:     1972,
		Category: "movie",
		Genre:    []string{"drama", "drama"},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Rating)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "movie", resp.Category.Slug)
	require.Len(t, resp.Genre, 1)
	assert.Equal(t, "drama", resp.Genre[0].Slug)

	_, err = svc.CreateTitle(ctx, &request.TitleRequest{Name: "X", Year: 2000, Category: "music", Genre: []string{"drama"}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateTitle(ctx, &request.TitleRequest{Name: "X", Year: 2000, Category: "movie", Genre: []string{"drama", "horror"}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "horror")

	_, err = svc.CreateTitle(ctx, &request.TitleRequest{Name: "X", Year: 3000, Category: "movie", Genre: []string{"drama"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTitleFiltersAndUpdate(t *testing.T) {
	repo, store := newMemRepository()
	seedCatalog(t, store)
	svc := NewTitleService(repo, zap.NewNop())
	ctx := context.Background()

	film, err := svc.CreateTitle(ctx, &request.TitleRequest{Name: "Heat", Year: 1995, Category: "movie", Genre: []string{"drama"}})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, &request.TitleRequest{Name: "Emma", Year: 1815, Category: "book", Genre: []string{"comedy"}})
	require.NoError(t, err)

	list, err := svc.GetTitles(ctx, &request.TitleListRequest{PaginatedRequest: request.PaginatedRequest{Page: 1}, Category: "book"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Emma", list.Data[0].Name)

	year := 1995
	list, err = svc.GetTitles(ctx, &request.TitleListRequest{PaginatedRequest: request.PaginatedRequest{Page: 1}, Year: &year})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Heat", list.Data[0].Name)

	genres := []string{"comedy"}
	updated, err := svc.UpdateTitle(ctx, film.ID, &request.TitleUpdateRequest{Genre: &genres})
	require.NoError(t, err)
	require.Len(t, updated.Genre, 1)
	assert.Equal(t, "comedy", updated.Genre[0].Slug)
	assert.Equal(t, "Heat", updated.Name)

	_, err = svc.GetTitle(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
