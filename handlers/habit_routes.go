// handlers/habit_routes.go
package handlers

import (
	"errors"
	"time"

	"nofap-ai/middleware"
	"nofap-ai/services"
	"nofap-ai/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupHabitRoutes(app *fiber.App, authService *services.AuthService, habitService *services.HabitService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/habits", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		habits, err := habitService.List(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list habits",
				"cause": err.Error(),
			})
		}
		slots, err := habitService.Slots(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count slots",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"habits": habits,
			"slots":  slots,
		})
	})

	secured.Post("/habits", func(c *fiber.Ctx) error {
		type Req struct {
			Title string `json:"title" validate:"required,max=100"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := utils.Validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		habit, err := habitService.Create(middleware.UserID(c), req.Title)
		if err != nil {
			if errors.Is(err, services.ErrSlotLimit) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "no free habit slot — reach a 30-day streak to unlock another",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create habit",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(habit)
	})

	secured.Post("/habits/:slug/check", func(c *fiber.Ctx) error {
		habit, already, err := habitService.Check(middleware.UserID(c), c.Params("slug"), time.Now())
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check habit",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"habit":           habit,
			"already_checked": already,
		})
	})

	secured.Post("/habits/:slug/archive", func(c *fiber.Ctx) error {
		if err := habitService.Archive(middleware.UserID(c), c.Params("slug")); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to archive habit",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "habit archived"})
	})
}
