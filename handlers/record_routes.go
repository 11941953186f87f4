// handlers/record_routes.go
package handlers

import (
	"errors"
	"time"

	"nofap-ai/middleware"
	"nofap-ai/services"
	"nofap-ai/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupRecordRoutes(app *fiber.App, authService *services.AuthService, recordService *services.RecordService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	// Calendar view: one month of records.
	secured.Get("/records", func(c *fiber.Ctx) error {
		month := c.Query("month", time.Now().Format("2006-01"))
		records, err := recordService.Month(middleware.UserID(c), month)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to list records",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"month":   month,
			"records": records,
		})
	})

	secured.Get("/records/:date", func(c *fiber.Ctx) error {
		rec, err := recordService.Get(middleware.UserID(c), c.Params("date"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load record",
				"cause": err.Error(),
			})
		}
		return c.JSON(rec)
	})

	secured.Post("/records/journal", func(c *fiber.Ctx) error {
		type Req struct {
			Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
			Journal string `json:"journal" validate:"required,max=10000"`
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

		rec, err := recordService.SaveJournal(middleware.UserID(c), req.Date, req.Journal, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save journal",
				"cause": err.Error(),
			})
		}
		return c.JSON(rec)
	})
}
