// handlers/chat_routes.go
package handlers

import (
	"bufio"
	"context"
	"errors"
	"log"

	"nofap-ai/middleware"
	"nofap-ai/services"
	"nofap-ai/utils"

	"github.com/gofiber/fiber/v2"
)

// ChatSessionCookie carries the last active chat session for browser clients.
const ChatSessionCookie = "chat_session"

func SetupChatRoutes(app *fiber.App, authService *services.AuthService, chatService *services.ChatService) {
	secured := app.Group("/", middleware.SessionAuthMiddleware(authService))

	secured.Get("/chat/sessions", func(c *fiber.Ctx) error {
		sessions, err := chatService.Sessions(middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list sessions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"sessions": sessions})
	})

	secured.Post("/chat/sessions", func(c *fiber.Ctx) error {
		type Req struct {
			Title string `json:"title" validate:"max=120"`
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
		session, err := chatService.CreateSession(middleware.UserID(c), req.Title)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create session",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	secured.Get("/chat/sessions/:id/messages", func(c *fiber.Ctx) error {
		msgs, err := chatService.Messages(middleware.UserID(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load messages",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"messages": msgs})
	})

	secured.Patch("/chat/sessions/:id", func(c *fiber.Ctx) error {
		type Req struct {
			Title string `json:"title" validate:"required,max=120"`
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
		if err := chatService.RenameSession(middleware.UserID(c), c.Params("id"), req.Title); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to rename session",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "session renamed"})
	})

	secured.Delete("/chat/sessions/:id", func(c *fiber.Ctx) error {
		if err := chatService.DeleteSession(middleware.UserID(c), c.Params("id")); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete session",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "session deleted"})
	})

	secured.Delete("/chat/messages/:id", func(c *fiber.Ctx) error {
		if err := chatService.DeleteMessage(middleware.UserID(c), c.Params("id")); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete message",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "message deleted"})
	})

	streamHandler := chatStreamHandler(chatService)
	secured.Post("/chat", streamHandler)
	secured.Post("/chat/:sessionId", streamHandler)
}

func chatStreamHandler(chatService *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		type Req struct {
			Messages  []services.IncomingMessage `json:"messages" validate:"required,min=1,dive"`
			SessionID string                     `json:"sessionId"`
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

		sessionID := resolveChatSessionID(c, req.SessionID)
		session, err := chatService.EnsureSession(userID, sessionID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to resolve session",
				"cause": err.Error(),
			})
		}

		c.Set("Content-Type", "text/plain; charset=utf-8")
		c.Set("X-Chat-Session", session.ID)
		c.Cookie(&fiber.Cookie{
			Name:  ChatSessionCookie,
			Value: session.ID,
			Path:  "/",
		})

		// Tokens flush to the client as the LLM produces them. The fiber
		// request is gone by the time this runs, so everything it needs is
		// captured up front.
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			_, err := chatService.Stream(context.Background(), userID, session.ID, req.Messages, func(token string) error {
				if _, err := w.WriteString(token); err != nil {
					return err
				}
				return w.Flush()
			})
			if err != nil {
				log.Printf("⚠️ Chat stream for %s failed: %v", userID, err)
			}
		})
		return nil
	}
}

// resolveChatSessionID applies the documented precedence:
// path > header > query > cookie > body.
func resolveChatSessionID(c *fiber.Ctx, bodyID string) string {
	if id := c.Params("sessionId"); id != "" {
		return id
	}
	if id := c.Get("X-Chat-Session"); id != "" {
		return id
	}
	if id := c.Query("session_id"); id != "" {
		return id
	}
	if id := c.Cookies(ChatSessionCookie); id != "" {
		return id
	}
	return bodyID
}
