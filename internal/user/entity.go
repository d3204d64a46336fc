// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/praxis-app/praxis-api/internal/progression"
)

// User is never deleted. Points and Rank are written only by the action
// logger; this package reads them.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Bio          string    `db:"bio"`
	Role         string    `db:"role"`
	Points       int       `db:"points"`
	Rank         string    `db:"rank"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) Progress() progression.Progress {
	return progression.ProgressOf(u.Points)
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxBioLength      = 300
)

type rankCount struct {
	Rank  string `db:"rank"`
	Count int    `db:"count"`
}
