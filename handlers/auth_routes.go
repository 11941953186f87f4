// handlers/auth_routes.go
package handlers

import (
	"errors"

	"nofap-ai/middleware"
	"nofap-ai/models"
	"nofap-ai/services"
	"nofap-ai/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	app.Post("/auth/register", func(c *fiber.Ctx) error {
		type Req struct {
			Email    string `json:"email" validate:"required,email"`
			Name     string `json:"name" validate:"required,max=64"`
			Password string `json:"password" validate:"required,min=8,max=72"`
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

		user, session, err := authService.Register(req.Email, req.Name, req.Password, c.IP(), c.Get("User-Agent"))
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "registration failed",
				"cause": err.Error(),
			})
		}

		setSessionCookie(c, session)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":  userView(user),
			"token": session.Token,
		})
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		type Req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
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

		user, session, err := authService.Login(req.Email, req.Password, c.IP(), c.Get("User-Agent"))
		if err != nil {
			if errors.Is(err, services.ErrBadCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "login failed",
				"cause": err.Error(),
			})
		}

		setSessionCookie(c, session)
		return c.JSON(fiber.Map{
			"user":  userView(user),
			"token": session.Token,
		})
	})

	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Post("/auth/logout", func(c *fiber.Ctx) error {
		token, _ := c.Locals("session_token").(string)
		if err := authService.Logout(token); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "logout failed",
				"cause": err.Error(),
			})
		}
		c.ClearCookie(middleware.SessionCookie)
		return c.JSON(fiber.Map{"message": "logged out"})
	})

	secured.Get("/auth/me", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		var user models.User
		if err := authService.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load user",
				"cause": err.Error(),
			})
		}
		return c.JSON(userView(&user))
	})
}

func setSessionCookie(c *fiber.Ctx, session *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func userView(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}
}
