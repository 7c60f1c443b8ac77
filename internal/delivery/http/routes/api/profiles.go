package api

import (
	"connecty/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterProfiles(r fiber.Router, profileHandler *handler.ProfileHandler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if profileHandler == nil {
		return
	}

	profileHandler.RegisterRoutes(r, auth)
}
