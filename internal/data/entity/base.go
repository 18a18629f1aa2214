package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is used by rows with a soft lifecycle.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewBase() Base {
	now := time.Now()
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func NewBaseNoDelete() BaseNoDelete {
	now := time.Now()
	return BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
