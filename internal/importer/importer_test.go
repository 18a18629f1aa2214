package importer

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sink records created rows and rejects repeated ids like a primary key.
type sink struct {
	seen  map[uuid.UUID]bool
	links int
	rows  map[string][]any
}

func newSink() *sink {
	return &sink{seen: map[uuid.UUID]bool{}, rows: map[string][]any{}}
}

func (s *sink) add(table string, id uuid.UUID, row any) error {
	if s.seen[id] {
		return fmt.Errorf("%w (%s_pkey)", repository.ErrDuplicate, table)
	}
	s.seen[id] = true
	s.rows[table] = append(s.rows[table], row)
	return nil
}

type categorySink struct {
	repository.CategoryRepository
	*sink
}

func (c categorySink) Create(ctx context.Context, category *entity.Category) error {
	return c.add("categories", category.ID, category)
}

type genreSink struct {
	repository.GenreRepository
	*sink
}

func (g genreSink) Create(ctx context.Context, genre *entity.Genre) error {
	return g.add("genres", genre.ID, genre)
}

type titleSink struct {
	repository.TitleRepository
	*sink
}

func (t titleSink) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	return t.add("titles", title.ID, title)
}

type titleGenreSink struct {
	repository.TitleGenreRepository
	*sink
}

func (t titleGenreSink) Create(ctx context.Context, link *entity.TitleGenre) error {
	t.links++
	return nil
}

type userSink struct {
	repository.UserRepository
	*sink
}

func (u userSink) Create(ctx context.Context, user *entity.User) error {
	return u.add("users", user.ID, user)
}

type reviewSink struct {
	repository.ReviewRepository
	*sink
}

func (r reviewSink) Create(ctx context.Context, review *entity.Review) error {
	return r.add("reviews", review.ID, review)
}

type commentSink struct {
	repository.CommentRepository
	*sink
}

func (c commentSink) Create(ctx context.Context, comment *entity.Comment) error {
	return c.add("comments", comment.ID, comment)
}

func newSinkRepository(s *sink) *repository.Repository {
	return &repository.Repository{
		Category:   categorySink{sink: s},
		Genre:      genreSink{sink: s},
		Title:      titleSink{sink: s},
		TitleGenre: titleGenreSink{sink: s},
		User:       userSink{sink: s},
		Review:     reviewSink{sink: s},
		Comment:    commentSink{sink: s},
	}
}

var fixtures = fstest.MapFS{
	"category.csv":    {Data: []byte("id,name,slug\n1,Фильм,movie\n2,Книга,book\n")},
	"genre.csv":       {Data: []byte("\ufeffid,name,slug\n1,Драма,drama\n")},
	"titles.csv":      {Data: []byte("id,name,year,category\n1,Побег из Шоушенка,1994,1\n2,Broken,not-a-year,1\n")},
	"genre_title.csv": {Data: []byte("id,title_id,genre_id\n1,1,1\n")},
	"users.csv":       {Data: []byte("id,username,email,role,bio,first_name,last_name\n100,bingobongo,bingo@yamdb.fake,user,,,\n101,root,root@yamdb.fake,god,,,\n")},
	"review.csv": {Data: []byte("id,title_id,text,author,score,pub_date\n" +
		"1,1,\"Не подвела, отлично\",100,10,2019-09-24T21:08:21.567Z\n" +
		"2,1,Too high,100,11,2019-09-24T21:08:21.567Z\n")},
}

func TestRunImportsFixtures(t *testing.T) {
	s := newSink()
	im := New(newSinkRepository(s), zap.NewNop())

	reports, err := im.Run(context.Background(), fixtures)
	require.NoError(t, err)
	require.Len(t, reports, len(files))

	byFile := map[string]FileReport{}
	for _, r := range reports {
		byFile[r.File] = r
	}

	assert.Equal(t, 2, byFile["category.csv"].Imported)
	assert.Equal(t, 1, byFile["genre.csv"].Imported, "BOM in header is ignored")
	assert.Equal(t, FileReport{File: "titles.csv", Imported: 1, Failed: 1}, byFile["titles.csv"])
	assert.Equal(t, 1, s.links)
	assert.Equal(t, FileReport{File: "users.csv", Imported: 1, Failed: 1}, byFile["users.csv"])
	assert.Equal(t, FileReport{File: "review.csv", Imported: 1, Failed: 1}, byFile["review.csv"])
	assert.True(t, byFile["comments.csv"].Missing)

	title := s.rows["titles"][0].(*entity.Title)
	assert.Equal(t, StableID("titles", "1"), title.ID)
	require.NotNil(t, title.CategoryID)
	assert.Equal(t, StableID("categories", "1"), *title.CategoryID)

	review := s.rows["reviews"][0].(*entity.Review)
	assert.Equal(t, "Не подвела, отлично", review.Text)
	assert.Equal(t, StableID("users", "100"), review.AuthorID)
	assert.Equal(t, 2019, review.CreatedAt.Year())
}

func TestRunIsIdempotent(t *testing.T) {
	s := newSink()
	im := New(newSinkRepository(s), zap.NewNop())

	_, err := im.Run(context.Background(), fixtures)
	require.NoError(t, err)

	reports, err := im.Run(context.Background(), fixtures)
	require.NoError(t, err)
	for _, r := range reports {
		if r.File == "genre_title.csv" || r.Missing {
			continue
		}
		assert.Zero(t, r.Imported, r.File)
	}
	assert.Len(t, s.rows["categories"], 2)
}

func TestStableID(t *testing.T) {
	assert.Equal(t, StableID("titles", "1"), StableID("titles", " 1 "))
	assert.NotEqual(t, StableID("titles", "1"), StableID("genres", "1"))
}
