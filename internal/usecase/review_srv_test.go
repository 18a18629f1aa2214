package usecase

import (
	"context"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reviewFixture struct {
	svc      *Service
	store    *memStore
	titleID  string
	author   Actor
	stranger Actor
	mod      Actor
	admin    Actor
}

func actorOf(u *entity.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, IsAdmin: u.IsAdmin()}
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	repo, store := newMemRepository()
	seedCatalog(t, store)
	svc := NewService(repo, testConfig(), &mockSender{}, zap.NewNop())

	title, err := svc.Title.CreateTitle(context.Background(), &request.TitleRequest{
		Name: "Heat", Year: 1995, Category: "movie", Genre: []string{"drama"},
	})
	require.NoError(t, err)

	return &reviewFixture{
		svc:      svc,
		store:    store,
		titleID:  title.ID,
		author:   actorOf(seedUser(t, store, "author", entity.RoleUser)),
		stranger: actorOf(seedUser(t, store, "stranger", entity.RoleUser)),
		mod:      actorOf(seedUser(t, store, "mod", entity.RoleModerator)),
		admin:    actorOf(seedUser(t, store, "boss", entity.RoleAdmin)),
	}
}

func intPtr(i int) *int { return &i }

func TestReviewOnePerAuthor(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "author", review.Author)
	assert.Equal(t, 9, review.Score)

	_, err = f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "again", Score: 1})
	assert.ErrorIs(t, err, ErrConflict)

	list, err := f.svc.Review.GetTitleReviews(ctx, f.titleID, &request.PaginatedRequest{Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Pagination.Total)
}

func TestReviewScoreBounds(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	for _, score := range []int{0, 11} {
		_, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "x", Score: score})
		assert.ErrorIs(t, err, ErrValidation, "score %d", score)
	}
}

func TestReviewUnknownTitle(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Review.CreateReview(context.Background(), f.author, uuid.NewString(), &request.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitleRatingIsMean(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "good", Score: 8})
	require.NoError(t, err)
	_, err = f.svc.Review.CreateReview(ctx, f.stranger, f.titleID, &request.CreateReviewRequest{Text: "meh", Score: 5})
	require.NoError(t, err)

	title, err := f.svc.Title.GetTitle(ctx, f.titleID)
	require.NoError(t, err)
	require.NotNil(t, title.Rating)
	assert.InDelta(t, 6.5, *title.Rating, 1e-9)
}

func TestReviewPermissions(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)

	_, err = f.svc.Review.UpdateReview(ctx, f.stranger, f.titleID, review.ID, &request.UpdateReviewRequest{Score: intPtr(1)})
	assert.ErrorIs(t, err, ErrPermission)
	assert.ErrorIs(t, f.svc.Review.DeleteReview(ctx, f.stranger, f.titleID, review.ID), ErrPermission)

	updated, err := f.svc.Review.UpdateReview(ctx, f.author, f.titleID, review.ID, &request.UpdateReviewRequest{Score: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Score)
	assert.Equal(t, "great", updated.Text)

	updated, err = f.svc.Review.UpdateReview(ctx, f.mod, f.titleID, review.ID, &request.UpdateReviewRequest{Text: strPtr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	require.NoError(t, f.svc.Review.DeleteReview(ctx, f.admin, f.titleID, review.ID))
	_, err = f.svc.Review.GetReview(ctx, f.titleID, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewScopedToTitle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	other, err := f.svc.Title.CreateTitle(ctx, &request.TitleRequest{Name: "Emma", Year: 1815, Category: "book", Genre: []string{"comedy"}})
	require.NoError(t, err)

	review, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)

	_, err = f.svc.Review.GetReview(ctx, other.ID, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// The cascade here is the one emulated by memTitleRepo.Delete. The schema's
// ON DELETE CASCADE is covered by TestEmbeddedSchemaForeignKeys and, against
// PostgreSQL, by TestTitleLifecycle.
func TestCommentPermissionsAndCascade(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.Review.CreateReview(ctx, f.author, f.titleID, &request.CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)

	comment, err := f.svc.Comment.CreateComment(ctx, f.stranger, f.titleID, review.ID, &request.CommentRequest{Text: "agreed"})
	require.NoError(t, err)
	assert.Equal(t, "stranger", comment.Author)

	_, err = f.svc.Comment.UpdateComment(ctx, f.author, f.titleID, review.ID, comment.ID, &request.CommentRequest{Text: "hijack"})
	assert.ErrorIs(t, err, ErrPermission)

	edited, err := f.svc.Comment.UpdateComment(ctx, f.mod, f.titleID, review.ID, comment.ID, &request.CommentRequest{Text: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", edited.Text)

	_, err = f.svc.Comment.CreateComment(ctx, f.author, f.titleID, uuid.NewString(), &request.CommentRequest{Text: "lost"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.Title.DeleteTitle(ctx, f.titleID))
	assert.Empty(t, f.store.reviews)
	assert.Empty(t, f.store.comments)
}

func TestAnonymousWritesRejected(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Review.CreateReview(context.Background(), Actor{}, f.titleID, &request.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrAuth)
}
