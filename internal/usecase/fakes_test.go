package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memStore backs in-memory versions of every repository.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*entity.User
	categories  map[uuid.UUID]*entity.Category
	genres      map[uuid.UUID]*entity.Genre
	titles      map[uuid.UUID]*entity.Title
	titleGenres map[uuid.UUID][]uuid.UUID
	reviews     map[uuid.UUID]*entity.Review
	comments    map[uuid.UUID]*entity.Comment
}

func newMemRepository() (*repository.Repository, *memStore) {
	s := &memStore{
		users:       map[uuid.UUID]*entity.User{},
		categories:  map[uuid.UUID]*entity.Category{},
		genres:      map[uuid.UUID]*entity.Genre{},
		titles:      map[uuid.UUID]*entity.Title{},
		titleGenres: map[uuid.UUID][]uuid.UUID{},
		reviews:     map[uuid.UUID]*entity.Review{},
		comments:    map[uuid.UUID]*entity.Comment{},
	}
	return &repository.Repository{
		User:     &memUserRepo{s},
		Category: &memCategoryRepo{s},
		Genre:    &memGenreRepo{s},
		Title:    &memTitleRepo{s},
		Review:   &memReviewRepo{s},
		Comment:  &memCommentRepo{s},
	}, s
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w (%s)", repository.ErrDuplicate, constraint)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// ==================== USERS ====================

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt != nil {
			continue
		}
		if u.Username == user.Username {
			return duplicate("users_username_active_key")
		}
		if u.Email == user.Email {
			return duplicate("users_email_active_key")
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) findBy(match func(*entity.User) bool) *entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && match(u) {
			return u
		}
	}
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *memUserRepo) list(search string) []*entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return strings.Compare(a.Username, b.Username) })
	return out
}

func (r *memUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	return page(r.list(search), limit, offset), nil
}

func (r *memUserRepo) CountAll(ctx context.Context, search string) (int64, error) {
	return int64(len(r.list(search))), nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.ID == user.ID || u.DeletedAt != nil {
			continue
		}
		if u.Username == user.Username {
			return duplicate("users_username_active_key")
		}
		if u.Email == user.Email {
			return duplicate("users_email_active_key")
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	u.ConfirmationCode = nil
	return nil
}

func (r *memUserRepo) SetConfirmationCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ConfirmationCode = &codeHash
	u.CodeExpiresAt = &expiresAt
	return nil
}

func (r *memUserRepo) ClearConfirmationCode(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ConfirmationCode = nil
	u.CodeExpiresAt = nil
	return nil
}

// ==================== CATALOG ====================

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == category.Slug {
			return duplicate("categories_slug_key")
		}
	}
	r.s.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categories[id], nil
}

func (r *memCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) list(search string) []*entity.Category {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *memCategoryRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	return page(r.list(search), limit, offset), nil
}

func (r *memCategoryRepo) CountAll(ctx context.Context, search string) (int64, error) {
	return int64(len(r.list(search))), nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.ID != category.ID && c.Slug == category.Slug {
			return duplicate("categories_slug_key")
		}
	}
	r.s.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	for _, t := range r.s.titles {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	return nil
}

type memGenreRepo struct{ s *memStore }

func (r *memGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.genres {
		if g.Slug == genre.Slug {
			return duplicate("genres_slug_key")
		}
	}
	r.s.genres[genre.ID] = genre
	return nil
}

func (r *memGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.genres[id], nil
}

func (r *memGenreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.genres {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, nil
}

func (r *memGenreRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.s.genres {
		if slices.Contains(slugs, g.Slug) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memGenreRepo) list(search string) []*entity.Genre {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.s.genres {
		if strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Genre) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *memGenreRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	return page(r.list(search), limit, offset), nil
}

func (r *memGenreRepo) CountAll(ctx context.Context, search string) (int64, error) {
	return int64(len(r.list(search))), nil
}

func (r *memGenreRepo) Update(ctx context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.genres {
		if g.ID != genre.ID && g.Slug == genre.Slug {
			return duplicate("genres_slug_key")
		}
	}
	r.s.genres[genre.ID] = genre
	return nil
}

func (r *memGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.genres[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.genres, id)
	for titleID, ids := range r.s.titleGenres {
		r.s.titleGenres[titleID] = slices.DeleteFunc(ids, func(g uuid.UUID) bool { return g == id })
	}
	return nil
}

func (r *memGenreRepo) FindByTitleID(ctx context.Context, titleID uuid.UUID) ([]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Genre
	for _, id := range r.s.titleGenres[titleID] {
		out = append(out, r.s.genres[id])
	}
	return out, nil
}

func (r *memGenreRepo) FindByTitleIDs(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	out := make(map[uuid.UUID][]*entity.Genre, len(titleIDs))
	for _, id := range titleIDs {
		genres, _ := r.FindByTitleID(ctx, id)
		out[id] = genres
	}
	return out, nil
}

type memTitleRepo struct{ s *memStore }

// rating mirrors the AVG(score) subquery; callers hold the lock.
func (r *memTitleRepo) rating(titleID uuid.UUID) *float64 {
	var sum, n int
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			sum += rv.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func (r *memTitleRepo) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.titles[title.ID] = title
	r.s.titleGenres[title.ID] = slices.Clone(genreIDs)
	return nil
}

func (r *memTitleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.titles[id]
	if !ok {
		return nil, nil
	}
	t.Rating = r.rating(id)
	return t, nil
}

func (r *memTitleRepo) list(filter entity.TitleFilter) []*entity.Title {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Title
	for _, t := range r.s.titles {
		if filter.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Year != nil && t.Year != *filter.Year {
			continue
		}
		if filter.CategorySlug != "" {
			c := r.categoryOf(t)
			if c == nil || c.Slug != filter.CategorySlug {
				continue
			}
		}
		if filter.GenreSlug != "" && !r.hasGenre(t.ID, filter.GenreSlug) {
			continue
		}
		t.Rating = r.rating(t.ID)
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *entity.Title) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *memTitleRepo) categoryOf(t *entity.Title) *entity.Category {
	if t.CategoryID == nil {
		return nil
	}
	return r.s.categories[*t.CategoryID]
}

func (r *memTitleRepo) hasGenre(titleID uuid.UUID, slug string) bool {
	for _, id := range r.s.titleGenres[titleID] {
		if g := r.s.genres[id]; g != nil && g.Slug == slug {
			return true
		}
	}
	return false
}

func (r *memTitleRepo) FindAll(ctx context.Context, filter entity.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	return page(r.list(filter), limit, offset), nil
}

func (r *memTitleRepo) CountAll(ctx context.Context, filter entity.TitleFilter) (int64, error) {
	return int64(len(r.list(filter))), nil
}

func (r *memTitleRepo) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[title.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.titles[title.ID] = title
	if genreIDs != nil {
		r.s.titleGenres[title.ID] = slices.Clone(genreIDs)
	}
	return nil
}

// Delete cascades to reviews and their comments like the foreign keys do.
func (r *memTitleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.titles, id)
	delete(r.s.titleGenres, id)
	for reviewID, rv := range r.s.reviews {
		if rv.TitleID != id {
			continue
		}
		delete(r.s.reviews, reviewID)
		for commentID, c := range r.s.comments {
			if c.ReviewID == reviewID {
				delete(r.s.comments, commentID)
			}
		}
	}
	return nil
}

// ==================== REVIEWS ====================

type memReviewRepo struct{ s *memStore }

func (r *memReviewRepo) withAuthor(rv *entity.Review) *entity.Review {
	if u := r.s.users[rv.AuthorID]; u != nil {
		rv.AuthorUsername = u.Username
	}
	return rv
}

func (r *memReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[review.TitleID]; !ok {
		return repository.ErrReference
	}
	for _, rv := range r.s.reviews {
		if rv.TitleID == review.TitleID && rv.AuthorID == review.AuthorID {
			return duplicate("reviews_title_author_key")
		}
	}
	r.s.reviews[review.ID] = review
	return nil
}

func (r *memReviewRepo) FindByID(ctx context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.TitleID != titleID {
		return nil, nil
	}
	return r.withAuthor(rv), nil
}

func (r *memReviewRepo) byTitle(titleID uuid.UUID) []*entity.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			out = append(out, r.withAuthor(rv))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Review) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (r *memReviewRepo) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return page(r.byTitle(titleID), limit, offset), nil
}

func (r *memReviewRepo) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	for _, rv := range r.byTitle(titleID) {
		if rv.AuthorID == authorID {
			return rv, nil
		}
	}
	return nil, nil
}

func (r *memReviewRepo) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	return int64(len(r.byTitle(titleID))), nil
}

func (r *memReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.reviews[review.ID] = review
	return nil
}

func (r *memReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	for commentID, c := range r.s.comments {
		if c.ReviewID == id {
			delete(r.s.comments, commentID)
		}
	}
	return nil
}

// ==================== COMMENTS ====================

type memCommentRepo struct{ s *memStore }

func (r *memCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[comment.ReviewID]; !ok {
		return repository.ErrReference
	}
	r.s.comments[comment.ID] = comment
	return nil
}

func (r *memCommentRepo) FindByID(ctx context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, nil
	}
	return c, nil
}

func (r *memCommentRepo) byReview(reviewID uuid.UUID) []*entity.Comment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (r *memCommentRepo) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	return page(r.byReview(reviewID), limit, offset), nil
}

func (r *memCommentRepo) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	return int64(len(r.byReview(reviewID))), nil
}

func (r *memCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[comment.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.comments[comment.ID] = comment
	return nil
}

func (r *memCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

// ==================== MAILER ====================

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	args := m.Called(ctx, to, username, code)
	return args.Error(0)
}
