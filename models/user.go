package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// User represents a user account in the system
type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	Role string `gorm:"default:'MEMBER'" json:"role"` // MEMBER, ADMIN

	// Team membership (optional)
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`
	Team   *Team `json:"team,omitempty"`
}

// IsAdmin reports whether the user has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Team represents a team users can belong to
type Team struct {
	gorm.Model
	Name string `gorm:"not null" json:"name"`

	// Relations
	Members []User `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// PasswordResetToken is a single-use reset credential with a one hour expiry.
// Requesting a new token deletes any outstanding tokens for the same user.
type PasswordResetToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	User User `json:"-"`
}

// Expired reports whether the token is past its expiry at the given time.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
