package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connecty/internal/config"
	"connecty/internal/database"
	"connecty/internal/database/migration"
	dbpostgres "connecty/internal/database/postgres"
	"connecty/internal/database/seeder"
	"connecty/internal/infrastructure/cache"
	"connecty/internal/infrastructure/scraper"
	"connecty/internal/repository"
	"connecty/internal/ws"

	"github.com/rs/zerolog"
)

// Container owns the long-lived infrastructure of the server process.
type Container struct {
	Config config.Config
	Logger zerolog.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	GitHub *scraper.GitHubClient

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	if err := c.prepareDatabase(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger.With().Str("component", "cache").Logger())
	c.GitHub = scraper.NewGitHubClient(cfg.GitHub.BaseURL, logger.With().Str("component", "github").Logger())

	hubCtx, stop := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger.With().Str("component", "ws").Logger())
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	return c, nil
}

func (c *Container) prepareDatabase(ctx context.Context) error {
	if c.Config.Database.RunMigrations {
		r := migration.Runner{Dir: c.Config.Database.MigrationsDir, Logger: c.Logger}
		if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	if c.Config.Database.RunSeeders {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
		if err := r.Run(ctx, c.DB); err != nil {
			return fmt.Errorf("run seeders: %w", err)
		}
	}
	return nil
}

// Deps exposes the container as HTTP application dependencies.
func (c *Container) Deps() Deps {
	return Deps{
		Config:   c.Config,
		Logger:   c.Logger,
		Users:    repository.NewPostgresUserRepository(c.DB),
		Profiles: repository.NewPostgresProfileRepository(c.DB),
		Cache:    c.Cache,
		Events:   c.Hub,
		Hub:      c.Hub,
		GitHub:   c.GitHub,
		DBPinger: c.DB,
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
