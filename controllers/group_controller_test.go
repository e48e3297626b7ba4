package controller

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"innofolio/models"
)

func createTestGroup(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Create(group).Error)
	return group
}

func TestInviteMemberReusesDeclinedRow(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com", "owner", nil)
	bob := createTestUser(t, db, "bob@example.com", "bob", nil)
	group := createTestGroup(t, db, "Skunkworks", owner.ID)

	declined := models.GroupInvitation{
		GroupID:    group.ID,
		SenderID:   owner.ID,
		ReceiverID: bob.ID,
		Status:     models.InvitationDeclined,
	}
	require.NoError(t, db.Create(&declined).Error)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&declined).Update("created_at", past).Error)

	app := newGroupApp(db, owner)
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/groups/%d/invitations", group.ID),
		map[string]interface{}{"username": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same row, reset to PENDING with a fresh timestamp
	var invitations []models.GroupInvitation
	require.NoError(t, db.Where("group_id = ? AND receiver_id = ?", group.ID, bob.ID).Find(&invitations).Error)
	require.Len(t, invitations, 1)
	assert.Equal(t, declined.ID, invitations[0].ID)
	assert.Equal(t, models.InvitationPending, invitations[0].Status)
	assert.True(t, invitations[0].CreatedAt.After(past.Add(time.Hour)))
}

func TestInviteMemberPendingConflict(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com", "owner", nil)
	bob := createTestUser(t, db, "bob@example.com", "bob", nil)
	group := createTestGroup(t, db, "Skunkworks", owner.ID)

	pending := models.GroupInvitation{
		GroupID:    group.ID,
		SenderID:   owner.ID,
		ReceiverID: bob.ID,
		Status:     models.InvitationPending,
	}
	require.NoError(t, db.Create(&pending).Error)

	app := newGroupApp(db, owner)
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/groups/%d/invitations", group.ID),
		map[string]interface{}{"username": "bob"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRespondToInvitationAccept(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com", "owner", nil)
	bob := createTestUser(t, db, "bob@example.com", "bob", nil)
	group := createTestGroup(t, db, "Skunkworks", owner.ID)

	invitation := models.GroupInvitation{
		GroupID:    group.ID,
		SenderID:   owner.ID,
		ReceiverID: bob.ID,
		Status:     models.InvitationPending,
	}
	require.NoError(t, db.Create(&invitation).Error)

	app := newGroupApp(db, bob)
	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/groups/invitations/%d/respond", invitation.ID),
		map[string]interface{}{"accept": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Accepting writes both the membership and the status
	var reloaded models.Group
	require.NoError(t, db.Preload("Members").First(&reloaded, group.ID).Error)
	assert.True(t, reloaded.HasMember(bob.ID))

	var after models.GroupInvitation
	require.NoError(t, db.First(&after, invitation.ID).Error)
	assert.Equal(t, models.InvitationAccepted, after.Status)
}

func TestRespondToInvitationDecline(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com", "owner", nil)
	bob := createTestUser(t, db, "bob@example.com", "bob", nil)
	group := createTestGroup(t, db, "Skunkworks", owner.ID)

	invitation := models.GroupInvitation{
		GroupID:    group.ID,
		SenderID:   owner.ID,
		ReceiverID: bob.ID,
		Status:     models.InvitationPending,
	}
	require.NoError(t, db.Create(&invitation).Error)

	app := newGroupApp(db, bob)
	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/groups/invitations/%d/respond", invitation.ID),
		map[string]interface{}{"accept": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.Group
	require.NoError(t, db.Preload("Members").First(&reloaded, group.ID).Error)
	assert.False(t, reloaded.HasMember(bob.ID))

	var after models.GroupInvitation
	require.NoError(t, db.First(&after, invitation.ID).Error)
	assert.Equal(t, models.InvitationDeclined, after.Status)
}

func TestRemoveMemberAllowsReinvite(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com", "owner", nil)
	bob := createTestUser(t, db, "bob@example.com", "bob", nil)
	group := createTestGroup(t, db, "Skunkworks", owner.ID)

	accepted := models.GroupInvitation{
		GroupID:    group.ID,
		SenderID:   owner.ID,
		ReceiverID: bob.ID,
		Status:     models.InvitationAccepted,
	}
	require.NoError(t, db.Create(&accepted).Error)
	require.NoError(t, db.Model(group).Association("Members").Append(bob))

	ownerApp := newGroupApp(db, owner)
	resp := doJSON(t, ownerApp, http.MethodDelete,
		fmt.Sprintf("/groups/%d/members/%d", group.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Removal clears the accepted invitation row as well
	var leftover int64
	require.NoError(t, db.Model(&models.GroupInvitation{}).
		Where("group_id = ? AND receiver_id = ?", group.ID, bob.ID).
		Count(&leftover).Error)
	assert.Equal(t, int64(0), leftover)

	// So a later invite starts a fresh cycle instead of hitting a conflict
	resp = doJSON(t, ownerApp, http.MethodPost, fmt.Sprintf("/groups/%d/invitations", group.ID),
		map[string]interface{}{"username": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var fresh models.GroupInvitation
	require.NoError(t, db.Where("group_id = ? AND receiver_id = ?", group.ID, bob.ID).First(&fresh).Error)
	assert.Equal(t, models.InvitationPending, fresh.Status)
}
