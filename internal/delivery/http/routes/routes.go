package routes

import (
	"connecty/internal/delivery/http/handler"
	"connecty/internal/delivery/http/routes/api"
	"connecty/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	api    api.Handlers
	ws     *ws.Handler
	auth   fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, handlers api.Handlers, wsHandler *ws.Handler, auth fiber.Handler) *Registry {
	return &Registry{health: health, api: handlers, ws: wsHandler, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api.Register(app.Group("/api"), r.api, r.auth)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/profiles", r.ws.HandleProfilesWS)
	}
}
