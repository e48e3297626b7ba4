package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innofolio/models"
)

func TestCreateIdeaSequentialNumbering(t *testing.T) {
	db := setupTestDB(t)

	team := models.Team{Name: "Acme"}
	require.NoError(t, db.Create(&team).Error)
	alice := createTestUser(t, db, "alice@example.com", "alice", &team.ID)

	app := newIdeaApp(db, alice)

	for _, want := range []int{1, 2, 3} {
		resp := doJSON(t, app, http.MethodPost, "/ideas", map[string]interface{}{
			"title": fmt.Sprintf("Idea %d", want),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Idea
		decodeJSON(t, resp, &created)
		assert.Equal(t, want, created.IdeaNumber)
		assert.Equal(t, want, created.GlobalCounter)
	}

	var counter models.IdeaCounter
	require.NoError(t, db.First(&counter, "scope = ?", models.NumberingScope(&team.ID, alice.ID)).Error)
	assert.Equal(t, 3, counter.Value)
}

func TestCreateIdeaScopesNumberIndependently(t *testing.T) {
	db := setupTestDB(t)

	team := models.Team{Name: "Acme"}
	require.NoError(t, db.Create(&team).Error)
	alice := createTestUser(t, db, "alice@example.com", "alice", &team.ID)
	solo := createTestUser(t, db, "solo@example.com", "solo", nil)

	teamApp := newIdeaApp(db, alice)
	resp := doJSON(t, teamApp, http.MethodPost, "/ideas", map[string]interface{}{"title": "Team idea"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var teamIdea models.Idea
	decodeJSON(t, resp, &teamIdea)
	assert.Equal(t, 1, teamIdea.IdeaNumber)

	// The personal scope starts at 1 regardless of other scopes, while the
	// global counter keeps running across all of them.
	soloApp := newIdeaApp(db, solo)
	resp = doJSON(t, soloApp, http.MethodPost, "/ideas", map[string]interface{}{"title": "Personal idea"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var soloIdea models.Idea
	decodeJSON(t, resp, &soloIdea)
	assert.Equal(t, 1, soloIdea.IdeaNumber)
	assert.Equal(t, 2, soloIdea.GlobalCounter)
}

func TestAddCollaboratorSameTeam(t *testing.T) {
	db := setupTestDB(t)

	team := models.Team{Name: "Acme"}
	require.NoError(t, db.Create(&team).Error)
	owner := createTestUser(t, db, "owner@example.com", "owner", &team.ID)
	mate := createTestUser(t, db, "mate@example.com", "mate", &team.ID)

	idea := models.Idea{
		IdeaNumber:    1,
		GlobalCounter: 1,
		Title:         "Shared",
		StageGate:     models.StageIdea,
		Visibility:    models.VisibilityPrivate,
		OwnerID:       owner.ID,
		TeamID:        &team.ID,
	}
	require.NoError(t, db.Create(&idea).Error)

	app := newIdeaApp(db, owner)
	url := fmt.Sprintf("/ideas/%d/collaborators", idea.ID)

	resp := doJSON(t, app, http.MethodPost, url, map[string]interface{}{"user_id": mate.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Idea
	decodeJSON(t, resp, &updated)
	assert.True(t, updated.HasCollaborator(mate.ID))

	// Adding the same user again is a no-op, not an error
	resp = doJSON(t, app, http.MethodPost, url, map[string]interface{}{"user_id": mate.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	count := db.Model(&idea).Association("Collaborators").Count()
	assert.Equal(t, int64(1), count)
}

func TestAddCollaboratorWithoutTeam(t *testing.T) {
	db := setupTestDB(t)

	solo := createTestUser(t, db, "solo@example.com", "solo", nil)
	other := createTestUser(t, db, "other@example.com", "other", nil)

	idea := models.Idea{
		IdeaNumber:    1,
		GlobalCounter: 1,
		Title:         "Personal",
		StageGate:     models.StageIdea,
		Visibility:    models.VisibilityPrivate,
		OwnerID:       solo.ID,
	}
	require.NoError(t, db.Create(&idea).Error)

	// A user with no team has no teammates, so no target can qualify
	app := newIdeaApp(db, solo)
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/ideas/%d/collaborators", idea.ID),
		map[string]interface{}{"user_id": other.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	count := db.Model(&idea).Association("Collaborators").Count()
	assert.Equal(t, int64(0), count)
}
