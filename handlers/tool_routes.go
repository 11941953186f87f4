// handlers/tool_routes.go
package handlers

import (
	"nofap-ai/middleware"
	"nofap-ai/models"
	"nofap-ai/services"

	"github.com/gofiber/fiber/v2"
)

// SetupToolRoutes serves the static preset catalogs the client-side timers
// (meditation, breathing, workout) run on. No per-user state lives here.
func SetupToolRoutes(app *fiber.App, authService *services.AuthService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/tools/presets", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"breathing":  models.BreathingPresets,
			"workouts":   models.WorkoutPresets,
			"meditation": models.MeditationDurations,
		})
	})
}
