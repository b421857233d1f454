package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role type to distinguish between account types
type Role string

const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known account types.
func (r Role) Valid() bool {
	return r == RoleCoach || r == RoleClient
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is an account in the system (either a Coach or a Client).
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"` // Stored lowercased
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	Image         string     `json:"image,omitempty"`
	PasswordHash  string     `gorm:"not null" json:"-"` // Never expose this via JSON
	Role          Role       `gorm:"column:user_type;not null" json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Only loaded for clients, and only when the caller asks for it.
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsCoach() bool {
	return a.Role == RoleCoach
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}
