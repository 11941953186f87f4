// handlers/streak_routes.go
package handlers

import (
	"time"

	"nofap-ai/middleware"
	"nofap-ai/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStreakRoutes(app *fiber.App, authService *services.AuthService, streakService *services.StreakService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/streak", func(c *fiber.Ctx) error {
		status, err := streakService.Status(middleware.UserID(c), time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load streak",
				"cause": err.Error(),
			})
		}
		return c.JSON(status)
	})

	secured.Post("/streak/start", func(c *fiber.Ctx) error {
		status, err := streakService.Start(middleware.UserID(c), time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start streak",
				"cause": err.Error(),
			})
		}
		return c.JSON(status)
	})

	secured.Post("/streak/reset", func(c *fiber.Ctx) error {
		type Req struct {
			Journal string `json:"journal" validate:"max=10000"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON",
					"cause": err.Error(),
				})
			}
		}

		userID := middleware.UserID(c)
		if err := streakService.Reset(userID, req.Journal, time.Now()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to reset streak",
				"cause": err.Error(),
			})
		}

		status, err := streakService.Status(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load streak",
				"cause": err.Error(),
			})
		}
		return c.JSON(status)
	})
}
