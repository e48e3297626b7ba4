package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"innofolio/config"
	"innofolio/models"
)

// sameTeam reports whether the path id matches the caller's team.
func sameTeam(user *models.User, param string) bool {
	if user.TeamID == nil {
		return false
	}
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return false
	}
	return uint(id) == *user.TeamID
}

func GetTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if !sameTeam(user, c.Params("id")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}

	var team models.Team
	if err := config.DB.Preload("Members").First(&team, *user.TeamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	return c.JSON(team)
}

func GetTeamMembers(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if !sameTeam(user, c.Params("id")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}

	var members []models.User
	if err := config.DB.Where("team_id = ?", *user.TeamID).Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch team members",
		})
	}

	return c.JSON(members)
}
