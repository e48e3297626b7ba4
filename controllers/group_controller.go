package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"innofolio/models"
	"innofolio/utils"
)

type GroupController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewGroupController(db *gorm.DB, logger *log.Logger) *GroupController {
	return &GroupController{
		DB:     db,
		Logger: logger,
	}
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        string  `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type InviteMemberRequest struct {
	Username string `json:"username" validate:"required"`
}

type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

// accessibleGroups scopes queries to groups the user owns or belongs to.
func (gc *GroupController) accessibleGroups(userID uint) *gorm.DB {
	return gc.DB.Where(
		"owner_id = ? OR id IN (SELECT group_id FROM group_members WHERE user_id = ?)",
		userID, userID,
	)
}

func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var groups []models.Group
	if err := gc.accessibleGroups(user.ID).
		Preload("Owner").
		Preload("Members").
		Order("created_at DESC").
		Find(&groups).Error; err != nil {
		utils.LogError("group_list", err, map[string]interface{}{"user_id": user.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch groups",
		})
	}

	return c.JSON(groups)
}

func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var group models.Group
	if err := gc.accessibleGroups(user.ID).
		Preload("Owner").
		Preload("Members").
		First(&group, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	return c.JSON(group)
}

func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateGroupRequest
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

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	}

	if err := gc.DB.Create(&group).Error; err != nil {
		utils.LogError("group_create", err, map[string]interface{}{"user_id": user.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create group",
		})
	}

	gc.DB.Preload("Owner").First(&group, group.ID)

	return c.Status(fiber.StatusCreated).JSON(group)
}

// ownedGroup looks up a group only if the caller owns it. Groups the caller
// cannot administer are indistinguishable from missing ones.
func (gc *GroupController) ownedGroup(userID uint, id string, dest *models.Group, preloads ...string) error {
	q := gc.DB
	for _, p := range preloads {
		q = q.Preload(p)
	}
	return q.Where("owner_id = ?", userID).First(dest, "id = ?", id).Error
}

func (gc *GroupController) UpdateGroup(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var group models.Group
	if err := gc.ownedGroup(user.ID, c.Params("id"), &group); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	var req UpdateGroupRequest
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

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}

	if err := gc.DB.Save(&group).Error; err != nil {
		utils.LogError("group_update", err, map[string]interface{}{"group_id": group.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update group",
		})
	}

	gc.DB.Preload("Owner").Preload("Members").First(&group, group.ID)

	return c.JSON(group)
}

func (gc *GroupController) DeleteGroup(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var group models.Group
	if err := gc.ownedGroup(user.ID, c.Params("id"), &group); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		// Ideas shared with this group fall back to PRIVATE so no row is
		// left claiming GROUP visibility without a group.
		if err := tx.Model(&models.Idea{}).
			Where("allowed_group_id = ?", group.ID).
			Updates(map[string]interface{}{
				"visibility":       models.VisibilityPrivate,
				"allowed_group_id": nil,
			}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("group_id = ?", group.ID).Delete(&models.GroupInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&group).Association("Members").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&group).Error
	})
	if err != nil {
		utils.LogError("group_delete", err, map[string]interface{}{"group_id": group.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete group",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Group deleted successfully",
	})
}

func (gc *GroupController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req AddMemberRequest
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

	var group models.Group
	if err := gc.ownedGroup(user.ID, c.Params("id"), &group, "Members"); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	var member models.User
	if err := gc.DB.First(&member, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if !group.HasMember(member.ID) {
		if err := gc.DB.Model(&group).Association("Members").Append(&member); err != nil {
			utils.LogError("group_add_member", err, map[string]interface{}{"group_id": group.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to add member",
			})
		}
	}

	gc.DB.Preload("Owner").Preload("Members").First(&group, group.ID)

	return c.JSON(group)
}

func (gc *GroupController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var group models.Group
	if err := gc.ownedGroup(user.ID, c.Params("id"), &group); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	var member models.User
	if err := gc.DB.First(&member, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&group).Association("Members").Delete(&member); err != nil {
			return err
		}
		// Drop any invitation record for the pair, otherwise a stale
		// ACCEPTED row would block inviting this user ever again.
		return tx.Unscoped().
			Where("group_id = ? AND receiver_id = ?", group.ID, member.ID).
			Delete(&models.GroupInvitation{}).Error
	})
	if err != nil {
		utils.LogError("group_remove_member", err, map[string]interface{}{"group_id": group.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove member",
		})
	}

	gc.DB.Preload("Owner").Preload("Members").First(&group, group.ID)

	return c.JSON(group)
}

// InviteMember invites a user to the group by username. A declined
// invitation for the same user is reset to PENDING on the same row; a
// pending one is a conflict.
func (gc *GroupController) InviteMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req InviteMemberRequest
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

	var group models.Group
	if err := gc.ownedGroup(user.ID, c.Params("id"), &group, "Members"); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	var receiver models.User
	if err := gc.DB.Where("username = ?", req.Username).First(&receiver).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if group.HasMember(receiver.ID) || group.OwnerID == receiver.ID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User is already a member of this group",
		})
	}

	var invitation models.GroupInvitation
	err := gc.DB.Where("group_id = ? AND receiver_id = ?", group.ID, receiver.ID).First(&invitation).Error
	switch {
	case err == nil && invitation.Status == models.InvitationPending:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invitation already pending",
		})
	case err == nil && invitation.CanReinvite():
		// Re-invite reuses the declined row
		invitation.Status = models.InvitationPending
		invitation.SenderID = user.ID
		invitation.CreatedAt = time.Now()
		if err := gc.DB.Save(&invitation).Error; err != nil {
			utils.LogError("invitation_reinvite", err, map[string]interface{}{"group_id": group.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create invitation",
			})
		}
	case err == nil:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invitation already accepted",
		})
	default:
		invitation = models.GroupInvitation{
			GroupID:    group.ID,
			SenderID:   user.ID,
			ReceiverID: receiver.ID,
			Status:     models.InvitationPending,
		}
		if err := gc.DB.Create(&invitation).Error; err != nil {
			utils.LogError("invitation_create", err, map[string]interface{}{"group_id": group.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create invitation",
			})
		}
	}

	// The response reflects the invitation record, never the email outcome
	if err := utils.SendGroupInvitationEmail(receiver.Email, user.Username, group.Name); err != nil {
		utils.LogError("invitation_email", err, map[string]interface{}{
			"group_id":    group.ID,
			"receiver_id": receiver.ID,
		})
	}

	gc.DB.Preload("Group").Preload("Sender").First(&invitation, invitation.ID)

	return c.Status(fiber.StatusCreated).JSON(invitation)
}

// RespondToInvitation accepts or declines a pending invitation. Accepting
// writes the membership and the status in one transaction.
func (gc *GroupController) RespondToInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req RespondInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var invitation models.GroupInvitation
	if err := gc.DB.Preload("Group").First(&invitation, "id = ?", c.Params("invitationId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invitation not found",
		})
	}

	if invitation.ReceiverID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to respond to this invitation",
		})
	}

	if !invitation.CanRespond() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invitation already responded to",
		})
	}

	if req.Accept {
		err := gc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&invitation.Group).Association("Members").Append(user); err != nil {
				return err
			}
			return tx.Model(&invitation).Update("status", models.InvitationAccepted).Error
		})
		if err != nil {
			utils.LogError("invitation_accept", err, map[string]interface{}{"invitation_id": invitation.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to accept invitation",
			})
		}
	} else {
		if err := gc.DB.Model(&invitation).Update("status", models.InvitationDeclined).Error; err != nil {
			utils.LogError("invitation_decline", err, map[string]interface{}{"invitation_id": invitation.ID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to decline invitation",
			})
		}
	}

	gc.DB.Preload("Group").Preload("Sender").First(&invitation, invitation.ID)

	return c.JSON(invitation)
}
