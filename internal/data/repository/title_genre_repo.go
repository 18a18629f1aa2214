package repository

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleGenreRepository interface {
	Create(ctx context.Context, link *entity.TitleGenre) error
}

type titleGenreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleGenreRepository(db database.PgxIface, log *zap.Logger) TitleGenreRepository {
	return &titleGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "title_genre")),
	}
}

// Create is idempotent for an existing link.
func (r *titleGenreRepository) Create(ctx context.Context, link *entity.TitleGenre) error {
	query := `INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, link.TitleID, link.GenreID); err != nil {
		err = translateError(err)
		r.log.Error("Failed to create title_genre",
			zap.Error(err),
			zap.String("title_id", link.TitleID.String()),
			zap.String("genre_id", link.GenreID.String()),
		)
		return fmt.Errorf("create title_genre: %w", err)
	}

	return nil
}

// replaceTitleGenres swaps the whole genre set of a title using one batch insert.
func replaceTitleGenres(ctx context.Context, q querier, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("clear title genres: %w", err)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	query := `INSERT INTO title_genres (title_id, genre_id) VALUES `
	args := make([]any, 0, len(genreIDs)*2)
	for i, genreID := range genreIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, titleID, genreID)
	}
	query += ` ON CONFLICT DO NOTHING`

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert title genres: %w", translateError(err))
	}

	return nil
}
