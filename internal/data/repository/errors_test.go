package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "reviews_title_author_key"}
	fk := &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "reviews_title_id_fkey"}
	other := errors.New("boom")

	assert.ErrorIs(t, translateError(unique), ErrDuplicate)
	assert.Contains(t, translateError(unique).Error(), "reviews_title_author_key")
	assert.ErrorIs(t, translateError(fk), ErrReference)
	assert.Equal(t, other, translateError(other))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%star%", likePattern("star"))
	assert.Equal(t, `%100\%\_x%`, likePattern("100%_x"))
}

func TestBuildTitleFilter(t *testing.T) {
	where, args := buildTitleFilter(entityFilter("", "", "", nil))
	assert.Empty(t, where)
	assert.Empty(t, args)

	year := 1999
	where, args = buildTitleFilter(entityFilter("movie", "drama", "matrix", &year))
	assert.Contains(t, where, "c.slug = $1")
	assert.Contains(t, where, "g.slug = $2")
	assert.Contains(t, where, "t.name ILIKE $3")
	assert.Contains(t, where, "t.year = $4")
	assert.Equal(t, []any{"movie", "drama", "%matrix%", 1999}, args)
}
