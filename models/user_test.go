package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleMember}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

func TestPasswordResetTokenExpired(t *testing.T) {
	now := time.Now()
	token := PasswordResetToken{ExpiresAt: now.Add(1 * time.Hour)}

	assert.False(t, token.Expired(now))
	assert.False(t, token.Expired(now.Add(59*time.Minute)))
	assert.True(t, token.Expired(now.Add(61*time.Minute)))
}
