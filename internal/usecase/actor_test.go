package usecase

import (
	"testing"

	"yamdb/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestActorCanModify(t *testing.T) {
	authorID := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"author", Actor{ID: authorID, Role: entity.RoleUser}, true},
		{"stranger", Actor{ID: uuid.New(), Role: entity.RoleUser}, false},
		{"moderator", Actor{ID: uuid.New(), Role: entity.RoleModerator}, true},
		{"admin role", Actor{ID: uuid.New(), Role: entity.RoleAdmin}, true},
		{"superuser with user role", Actor{ID: uuid.New(), Role: entity.RoleUser, IsAdmin: true}, true},
		{"unknown role", Actor{ID: uuid.New(), Role: "guest"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanModify(authorID))
		})
	}
}
