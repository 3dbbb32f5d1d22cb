package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleCoach     Role = "coach"
	RoleAthlete   Role = "athlete"
	RoleAdmin     Role = "admin"
)

// closed set; anything else is a typo, not a new role

func (r Role) IsValid() bool {
	switch r {
	case RoleOrganizer, RoleCoach, RoleAthlete, RoleAdmin:
		return true
	default:
		return false
	}
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// New builds a user record with defaults applied: empty role becomes
// athlete, accounts start active.
func New(email, passwordHash, name string, role Role) User {
	if role == "" {
		role = RoleAthlete
	}

	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
