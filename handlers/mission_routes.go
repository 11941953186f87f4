// handlers/mission_routes.go
package handlers

import (
	"errors"
	"time"

	"nofap-ai/middleware"
	"nofap-ai/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, authService *services.AuthService, missionService *services.MissionService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/missions/today", func(c *fiber.Ctx) error {
		missions, err := missionService.Today(middleware.UserID(c), time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"missions": missions})
	})

	secured.Post("/missions/:id/complete", func(c *fiber.Ctx) error {
		mission, already, err := missionService.Complete(middleware.UserID(c), c.Params("id"), time.Now())
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete mission",
				"cause": err.Error(),
			})
		}
		if already {
			return c.JSON(fiber.Map{
				"message": "already completed",
				"mission": mission,
			})
		}
		return c.JSON(fiber.Map{
			"message": "mission completed",
			"mission": mission,
		})
	})

}
