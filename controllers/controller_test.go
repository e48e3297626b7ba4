package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"innofolio/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.PasswordResetToken{},
		&models.Group{},
		&models.GroupInvitation{},
		&models.Idea{},
		&models.IdeaCounter{},
		&models.GlobalCounter{},
	))
	return db
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// asUser injects the user the way the JWT middleware does.
func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

func newIdeaApp(db *gorm.DB, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(asUser(user))

	ic := NewIdeaController(db, discardLogger())
	app.Post("/ideas", ic.CreateIdea)
	app.Post("/ideas/:id/collaborators", ic.AddCollaborator)
	return app
}

func newGroupApp(db *gorm.DB, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(asUser(user))

	gc := NewGroupController(db, discardLogger())
	app.Post("/groups/invitations/:invitationId/respond", gc.RespondToInvitation)
	app.Post("/groups/:id/invitations", gc.InviteMember)
	app.Delete("/groups/:id/members/:userId", gc.RemoveMember)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string, teamID *uint) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "irrelevant",
		Role:         models.RoleMember,
		TeamID:       teamID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
