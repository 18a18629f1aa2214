package usecase

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID      uuid.UUID
	Role    entity.UserRole
	IsAdmin bool
}

// CanModerate reports whether the actor may edit content authored by others.
func (a Actor) CanModerate() bool {
	return a.IsAdmin || a.Role.CanModerate()
}

// CanModify allows the author, moderators and admins.
func (a Actor) CanModify(authorID uuid.UUID) bool {
	return a.ID == authorID || a.CanModerate()
}
