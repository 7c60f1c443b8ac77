package api

import (
	"connecty/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Profiles *handler.ProfileHandler
}

func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	RegisterUsers(r.Group("/users"), h.Auth, h.Users, auth)
	RegisterProfiles(r.Group("/profiles"), h.Profiles, auth)
}
