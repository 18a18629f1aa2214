package entity

import (
	"github.com/google/uuid"
)

type TitleGenre struct {
	TitleID uuid.UUID `db:"title_id"`
	GenreID uuid.UUID `db:"genre_id"`
}
