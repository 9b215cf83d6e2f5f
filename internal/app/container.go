package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/database/seeder"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/infrastructure/metrics"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/repository"
	"skill-swap/internal/repository/memory"
	"skill-swap/internal/usecase"
	ucauth "skill-swap/internal/usecase/auth"
	"skill-swap/internal/ws"
	"skill-swap/migrations"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config  config.Config
	Logger  *log.Logger
	DB      database.DB
	Store   repository.Store
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	Hub     *ws.Hub
	JWT     *jwt.HMACService

	Auth      usecase.AuthUsecase
	Profiles  usecase.ProfileUsecase
	Matching  usecase.MatchingUsecase
	Exchanges usecase.ExchangeUsecase
	Skills    usecase.SkillUsecase
}

// NewContainer connects the configured store and wires the usecases. With the
// memory driver no database is opened and the catalog is preloaded. An empty
// REDIS_HOST disables the cache.
func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger, Metrics: metrics.New()}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		c.Store = memory.New(memory.WithSkills(seeder.Catalog()))
		logger.Printf("[Store] using in-memory store")
	default:
		if err := c.connectPostgres(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.Redis.Host != "" {
		c.Cache = cache.NewRedis(ctx, cfg.Redis, logger)
	}

	c.Hub = ws.NewHub(logger, c.Metrics)
	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
		jwt.WithIssuer(cfg.App.AppName),
	)

	c.Auth = usecase.NewAuthUsecase(ucauth.NewService(c.Store), c.Store.Accounts(), c.JWT)
	c.Profiles = usecase.NewProfileUsecase(c.Store)
	c.Matching = usecase.NewMatchingUsecase(c.Store, c.Metrics, logger)
	c.Exchanges = usecase.NewExchangeUsecase(c.Store, c.Cache, c.Hub, c.Metrics, logger)
	c.Skills = usecase.NewSkillUsecase(c.Store, c.Cache, cfg.Redis.TTL, logger)

	return c, nil
}

func (c *Container) connectPostgres(ctx context.Context) error {
	cfg := c.Config.Database

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	if cfg.RunMigrations {
		res, err := migration.Runner{Source: migrations.FS, Logger: c.Logger}.Run(ctx, db.SQLDB())
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		c.Logger.Printf("[Migration] done | applied=%d skipped=%d", len(res.Applied), res.Skipped)
	}
	if cfg.RunSeeders {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}).Run(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("run seeders: %w", err)
		}
	}

	c.Store = repository.NewPostgresStore(db)
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if err := c.Cache.Close(); err != nil {
		c.Logger.Printf("[Cache] close error | err=%v", err)
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
