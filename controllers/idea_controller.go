package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"innofolio/models"
	"innofolio/utils"
)

type IdeaController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewIdeaController(db *gorm.DB, logger *log.Logger) *IdeaController {
	return &IdeaController{
		DB:     db,
		Logger: logger,
	}
}

type CreateIdeaRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description"`
	Opportunity    string `json:"opportunity"`
	Tags           string `json:"tags"`
	Visibility     string `json:"visibility" validate:"omitempty,oneof=PRIVATE PUBLIC GROUP"`
	AllowedGroupID *uint  `json:"allowed_group_id"`
}

type AddCollaboratorRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// scopedIdea looks up a single idea within the actor's scope: the actor's
// team, or their own personal ideas when they have none. Out-of-scope rows
// look exactly like missing ones.
func (ic *IdeaController) scopedIdea(actor models.Actor, id string, dest *models.Idea, preloads ...string) error {
	q := ic.DB
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if actor.TeamID != nil {
		q = q.Where("team_id = ?", *actor.TeamID)
	} else {
		q = q.Where("team_id IS NULL AND owner_id = ?", actor.UserID)
	}
	return q.First(dest, "id = ?", id).Error
}

// nextIdeaNumber bumps the per-scope counter in one statement, so two
// creates in the same scope can never be handed the same number.
func (ic *IdeaController) nextIdeaNumber(tx *gorm.DB, scope string) (int, error) {
	var value int
	err := tx.Raw(`
		INSERT INTO idea_counters (scope, value) VALUES (?, 1)
		ON CONFLICT (scope) DO UPDATE SET value = idea_counters.value + 1
		RETURNING value
	`, scope).Scan(&value).Error
	return value, err
}

func (ic *IdeaController) nextGlobalCounter(tx *gorm.DB) (int, error) {
	var value int
	err := tx.Raw(`
		INSERT INTO global_counters (id, value) VALUES (?, 1)
		ON CONFLICT (id) DO UPDATE SET value = global_counters.value + 1
		RETURNING value
	`, models.GlobalCounterID).Scan(&value).Error
	return value, err
}

// GetIdeas lists every idea visible to the caller, restricted by the typed
// filter criteria from the query string.
func (ic *IdeaController) GetIdeas(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	filter := models.IdeaFilter{
		StageGate:        c.Query("stageGate"),
		Search:           c.Query("search"),
		Tag:              c.Query("tag"),
		IncludeSidelined: c.QueryBool("includeSidelined"),
	}
	if filter.StageGate != "" && !models.ValidStageGate(filter.StageGate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stage gate",
		})
	}

	var ideas []models.Idea
	if err := ic.DB.
		Preload("Owner").
		Preload("Collaborators").
		Preload("AllowedGroup").
		Preload("AllowedGroup.Members").
		Order("created_at DESC").
		Find(&ideas).Error; err != nil {
		utils.LogError("idea_list", err, map[string]interface{}{"user_id": user.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch ideas",
		})
	}

	visible := make([]models.Idea, 0, len(ideas))
	for i := range ideas {
		if ideas[i].VisibleTo(user.ID) && filter.Matches(&ideas[i]) {
			visible = append(visible, ideas[i])
		}
	}

	return c.JSON(visible)
}

func (ic *IdeaController) GetIdea(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var idea models.Idea
	if err := ic.scopedIdea(models.ActorFor(user), c.Params("id"), &idea,
		"Owner", "Collaborators", "AllowedGroup"); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	return c.JSON(idea)
}

func (ic *IdeaController) CreateIdea(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	var allowedGroupID *uint
	if visibility == models.VisibilityGroup {
		if req.AllowedGroupID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "allowed_group_id is required for GROUP visibility",
			})
		}
		var group models.Group
		if err := ic.DB.First(&group, *req.AllowedGroupID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		allowedGroupID = req.AllowedGroupID
	}

	scope := models.NumberingScope(user.TeamID, user.ID)

	var idea models.Idea
	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		ideaNumber, err := ic.nextIdeaNumber(tx, scope)
		if err != nil {
			return err
		}
		globalCounter, err := ic.nextGlobalCounter(tx)
		if err != nil {
			return err
		}

		idea = models.Idea{
			IdeaNumber:     ideaNumber,
			GlobalCounter:  globalCounter,
			Title:          req.Title,
			Description:    req.Description,
			Opportunity:    req.Opportunity,
			Tags:           req.Tags,
			StageGate:      models.StageIdea,
			Visibility:     visibility,
			AllowedGroupID: allowedGroupID,
			OwnerID:        user.ID,
			TeamID:         user.TeamID,
		}
		return tx.Create(&idea).Error
	})
	if err != nil {
		utils.LogError("idea_create", err, map[string]interface{}{"user_id": user.ID, "scope": scope})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create idea",
		})
	}

	ic.DB.Preload("Owner").Preload("Collaborators").Preload("AllowedGroup").First(&idea, idea.ID)

	return c.Status(fiber.StatusCreated).JSON(idea)
}

func (ic *IdeaController) UpdateIdea(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var idea models.Idea
	if err := ic.DB.Preload("Collaborators").First(&idea, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	if !idea.Can(models.ActorFor(user), models.ActionUpdate) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to edit this idea",
		})
	}

	var update models.IdeaUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if update.Visibility != nil && *update.Visibility == models.VisibilityGroup && update.AllowedGroupID != nil {
		var group models.Group
		if err := ic.DB.First(&group, *update.AllowedGroupID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
	}

	if err := update.Apply(&idea); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := ic.DB.Save(&idea).Error; err != nil {
		utils.LogError("idea_update", err, map[string]interface{}{"idea_id": idea.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update idea",
		})
	}

	ic.DB.Preload("Owner").Preload("Collaborators").Preload("AllowedGroup").First(&idea, idea.ID)

	return c.JSON(idea)
}

// SidelineIdea toggles the sidelined state. Collaborators are deliberately
// excluded here; only the owner or an admin may park an idea.
func (ic *IdeaController) SidelineIdea(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := models.ActorFor(user)

	var idea models.Idea
	if err := ic.scopedIdea(actor, c.Params("id"), &idea); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	if !idea.Can(actor, models.ActionSideline) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only owner or admin can sideline ideas",
		})
	}

	idea.ToggleSideline()

	if err := ic.DB.Save(&idea).Error; err != nil {
		utils.LogError("idea_sideline", err, map[string]interface{}{"idea_id": idea.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to sideline idea",
		})
	}

	ic.DB.Preload("Owner").Preload("Collaborators").First(&idea, idea.ID)

	return c.JSON(idea)
}

func (ic *IdeaController) DeleteIdea(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := models.ActorFor(user)

	var idea models.Idea
	if err := ic.scopedIdea(actor, c.Params("id"), &idea); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	if !idea.Can(actor, models.ActionDelete) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only owner or admin can delete ideas",
		})
	}

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&idea).Association("Collaborators").Clear(); err != nil {
			return err
		}
		// Permanent removal, not a soft delete
		return tx.Unscoped().Delete(&idea).Error
	})
	if err != nil {
		utils.LogError("idea_delete", err, map[string]interface{}{"idea_id": idea.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete idea",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Idea deleted successfully",
	})
}

func (ic *IdeaController) AddCollaborator(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := models.ActorFor(user)

	var req AddCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var idea models.Idea
	if err := ic.scopedIdea(actor, c.Params("id"), &idea, "Collaborators"); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	if !idea.Can(actor, models.ActionAddCollaborator) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to add collaborators",
		})
	}

	// The target must belong to the actor's team
	var collaborator models.User
	if actor.TeamID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found in team",
		})
	}
	if err := ic.DB.Where("id = ? AND team_id = ?", req.UserID, *actor.TeamID).First(&collaborator).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found in team",
		})
	}

	// Adding is idempotent
	if !idea.HasCollaborator(collaborator.ID) {
		if err := ic.DB.Model(&idea).Association("Collaborators").Append(&collaborator); err != nil {
			utils.LogError("idea_add_collaborator", err, map[string]interface{}{"idea_id": idea.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to add collaborator",
			})
		}
	}

	ic.DB.Preload("Owner").Preload("Collaborators").First(&idea, idea.ID)

	return c.JSON(idea)
}

func (ic *IdeaController) RemoveCollaborator(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	actor := models.ActorFor(user)

	var idea models.Idea
	if err := ic.scopedIdea(actor, c.Params("id"), &idea, "Collaborators"); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	if !idea.Can(actor, models.ActionRemoveCollaborator) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only owner can remove collaborators",
		})
	}

	var collaborator models.User
	if err := ic.DB.First(&collaborator, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := ic.DB.Model(&idea).Association("Collaborators").Delete(&collaborator); err != nil {
		utils.LogError("idea_remove_collaborator", err, map[string]interface{}{"idea_id": idea.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove collaborator",
		})
	}

	ic.DB.Preload("Owner").Preload("Collaborators").First(&idea, idea.ID)

	return c.JSON(idea)
}
