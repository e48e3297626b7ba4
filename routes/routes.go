package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "innofolio/controllers"
	"innofolio/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints, rate limited by client IP
	public := auth.Group("", middleware.AuthRateLimiter())
	public.Post("/signup", controller.Signup)
	public.Post("/login", controller.Login)
	public.Post("/request-password-reset", controller.RequestPasswordReset)
	public.Post("/reset-password", controller.ResetPassword)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetMe)
	protectedAuth.Put("/profile", controller.UpdateProfile)
	protectedAuth.Put("/change-password", controller.ChangePassword)
	protectedAuth.Get("/notifications", controller.GetNotifications)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	ideaController := controller.NewIdeaController(db, log.New(os.Stdout, "IDEA: ", log.LstdFlags))
	groupController := controller.NewGroupController(db, log.New(os.Stdout, "GROUP: ", log.LstdFlags))

	requestLogger := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Idea routes
	idea := app.Group("/ideas", middleware.Protected(), requestLogger)
	idea.Get("/", ideaController.GetIdeas)
	idea.Get("/:id", ideaController.GetIdea)
	idea.Post("/", ideaController.CreateIdea)
	idea.Put("/:id", ideaController.UpdateIdea)
	idea.Patch("/:id/sideline", ideaController.SidelineIdea)
	idea.Delete("/:id", ideaController.DeleteIdea)
	idea.Post("/:id/collaborators", ideaController.AddCollaborator)
	idea.Delete("/:id/collaborators/:userId", ideaController.RemoveCollaborator)

	// Group routes
	group := app.Group("/groups", middleware.Protected(), requestLogger)
	group.Post("/invitations/:invitationId/respond", groupController.RespondToInvitation)
	group.Get("/", groupController.GetGroups)
	group.Get("/:id", groupController.GetGroup)
	group.Post("/", groupController.CreateGroup)
	group.Put("/:id", groupController.UpdateGroup)
	group.Delete("/:id", groupController.DeleteGroup)
	group.Post("/:id/members", groupController.AddMember)
	group.Delete("/:id/members/:userId", groupController.RemoveMember)
	group.Post("/:id/invitations", groupController.InviteMember)

	// Team routes
	team := app.Group("/teams", middleware.Protected(), requestLogger)
	team.Get("/:id", controller.GetTeam)
	team.Get("/:id/members", controller.GetTeamMembers)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
