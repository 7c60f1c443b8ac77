package api

import (
	"connecty/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RegisterUsers mounts /api/users. Only /current requires a token.
func RegisterUsers(r fiber.Router, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if authHandler != nil {
		authHandler.RegisterRoutes(r)
	}
	if userHandler != nil {
		userHandler.RegisterRoutes(r.Group("", auth))
	}
}
