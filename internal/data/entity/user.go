package entity

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// CanModerate reports whether the role may edit content authored by others.
func (r UserRole) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username    string   `db:"username"`
	Email       string   `db:"email"`
	FirstName   string   `db:"first_name"`
	LastName    string   `db:"last_name"`
	Bio         string   `db:"bio"`
	Role        UserRole `db:"role"`
	IsSuperuser bool     `db:"is_superuser"`

	// ConfirmationCode holds a bcrypt hash, never the code itself.
	ConfirmationCode *string    `db:"confirmation_code"`
	CodeExpiresAt    *time.Time `db:"code_expires_at"`
}

// IsAdmin reports admin-level access. Superusers count as admins whatever their role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}
