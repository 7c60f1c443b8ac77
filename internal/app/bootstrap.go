package app

import (
	"fmt"
	"strings"

	"connecty/internal/config"
	"connecty/internal/delivery/http/handler"
	"connecty/internal/delivery/http/middleware"
	"connecty/internal/delivery/http/routes"
	"connecty/internal/delivery/http/routes/api"
	"connecty/internal/domain/profile"
	"connecty/internal/domain/user"
	"connecty/internal/pkg/jwt"
	"connecty/internal/usecase"
	"connecty/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type App struct {
	Fiber *fiber.App
}

// Deps are the collaborators the HTTP application is built from. Cache,
// Events, Hub, GitHub and DBPinger are optional.
type Deps struct {
	Config   config.Config
	Logger   zerolog.Logger
	Users    user.Repository
	Profiles profile.Repository
	Cache    usecase.Cache
	Events   usecase.ProfileEvents
	Hub      *ws.Hub
	GitHub   usecase.GitHubClient
	DBPinger handler.Pinger
}

func New(deps Deps) *App {
	f := fiber.New(fiber.Config{AppName: deps.Config.App.AppName})

	registerGlobalMiddleware(f, deps.Logger)
	registerRoutes(f, deps)

	return &App{Fiber: f}
}

// Bootstrap connects the infrastructure and builds the application. The
// returned cleanup releases everything the container opened.
func Bootstrap(cfg config.Config, logger zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c.Deps()), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger zerolog.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger)
	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, deps Deps) {
	if app == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	authUC := usecase.NewAuthUsecase(deps.Users, jwtSvc)
	userUC := usecase.NewUserUsecase(deps.Users)
	profileUC := usecase.NewProfileUsecase(deps.Profiles, deps.Cache, deps.Events, deps.Logger)

	var githubUC usecase.GitHubUsecase
	if deps.GitHub != nil {
		githubUC = usecase.NewGitHubUsecase(deps.GitHub, deps.Cache, deps.Config.GitHub.RepoLimit, deps.Logger)
	}

	var cachePinger handler.Pinger
	if p, ok := deps.Cache.(handler.Pinger); ok {
		cachePinger = p
	}

	var wsHandler *ws.Handler
	if deps.Hub != nil {
		wsHandler = ws.NewHandler(deps.Hub, deps.Logger)
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(deps.DBPinger, cachePinger),
		api.Handlers{
			Auth:     handler.NewAuthHandler(authUC),
			Users:    handler.NewUserHandler(userUC),
			Profiles: handler.NewProfileHandler(profileUC, githubUC),
		},
		wsHandler,
		authMw.Middleware(),
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
