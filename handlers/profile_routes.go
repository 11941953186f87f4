// handlers/profile_routes.go
package handlers

import (
	"errors"
	"path/filepath"
	"time"

	"nofap-ai/middleware"
	"nofap-ai/services"
	"nofap-ai/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupProfileRoutes(app *fiber.App, authService *services.AuthService, profileService *services.ProfileService, streakService *services.StreakService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/profile", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		profile, err := profileService.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}

		info := services.CalculateLevel(profile.TotalXP)
		score := services.ScoreFromMoteLevel(profile.MoteLevel)

		days := 0
		if status, err := streakService.Status(userID, time.Now()); err == nil {
			days = status.Days
		}

		return c.JSON(fiber.Map{
			"id":               profile.ID,
			"total_xp":         profile.TotalXP,
			"level":            info.Level,
			"xp_into_level":    info.XPIntoLevel,
			"xp_for_next":      info.XPForNextLevel,
			"progress_percent": info.ProgressPercent,
			"confidence":       profile.Confidence,
			"vitality":         profile.Vitality,
			"calmness":         profile.Calmness,
			"cleanliness":      profile.Cleanliness,
			"mote_level":       profile.MoteLevel,
			"max_mote_level":   profile.MaxMoteLevel,
			"score":            score,
			"tier":             services.TierForScore(score),
			"streak_days":      days,
			"last_reset_at":    profile.LastResetAt,
			"persona":          profile.Persona,
			"avatar_url":       profile.AvatarURL,
		})
	})

	secured.Post("/profile/persona", func(c *fiber.Ctx) error {
		type Req struct {
			Persona string `json:"persona" validate:"required,oneof=mentor friend drill"`
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

		if err := profileService.SetPersona(middleware.UserID(c), req.Persona); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update persona",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"persona": req.Persona})
	})

	secured.Post("/profile/avatar", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		avatarFile, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}
		if avatarFile.Size > 5*1024*1024 { // 5MB
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 5MB)"})
		}

		ext := filepath.Ext(avatarFile.Filename)
		if ext == "" {
			ext = ".png"
		}

		var url string
		if utils.R2Enabled() {
			url, err = utils.UploadFileToR2(avatarFile, "avatars/"+uuid.NewString()+ext)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to upload avatar",
					"cause": err.Error(),
				})
			}
		} else {
			localPath := utils.GetUploadPath("avatars/" + uuid.NewString() + ext)
			if err := utils.SaveFile(avatarFile, localPath); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to save avatar",
					"cause": err.Error(),
				})
			}
			url = "/" + localPath
		}

		if err := profileService.SetAvatarURL(userID, url); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store avatar URL",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"avatar_url": url})
	})
}
