package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleHost      Role = "host"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleHost, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanHost reports whether the role may manage opportunities.
func (r Role) CanHost() bool {
	return r == RoleHost || r == RoleAdmin
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the user-editable attributes.
type Profile struct {
	FullName  string
	Phone     string
	Bio       string
	Country   string
	AvatarURL string
	Skills    []string
}
