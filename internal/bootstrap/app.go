package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"jobs-backend/internal/admin"
	"jobs-backend/internal/applications"
	"jobs-backend/internal/bot"
	"jobs-backend/internal/intake"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
	"jobs-backend/internal/services/health"
	"jobs-backend/internal/shared/auth"
	"jobs-backend/internal/shared/config"
	"jobs-backend/internal/shared/server"
	"jobs-backend/internal/shared/server/middleware"
	"jobs-backend/internal/shared/storage/db"
	"jobs-backend/internal/shared/storage/object"
	localstore "jobs-backend/internal/shared/storage/object/local"
	s3store "jobs-backend/internal/shared/storage/object/s3"
	"jobs-backend/internal/shared/telemetry"
	"jobs-backend/internal/telegram"
)

// Options tunes Build for the process being started.
type Options struct {
	DB db.Options
	// BotAPI is reused when the caller already authenticated against Telegram.
	BotAPI telegram.API
}

// App holds shared dependencies for the API and bot processes.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Redis    *redis.Client
	Store    object.ObjectStore
	BotAPI   telegram.API
	Sessions intake.SessionStore

	ProfilesService     *profiles.Service
	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	AdminService        *admin.Service
	Panel               *admin.Panel
	Signer              *auth.Signer
	Intake              *intake.Machine
	Archive             *telegram.ResumeArchive
	Notifier            *telegram.Notifier
	Bot                 *bot.Bot
	Health              *health.Service
}

var newBotAPI = func(token string) (telegram.API, error) {
	return telegram.NewAPI(token)
}

// Build prepares shared dependencies and the admin router.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg, opts.DB)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB, BotAPI: opts.BotAPI}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Sessions, app.Redis, err = buildSessions(cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.BotAPI == nil && strings.TrimSpace(cfg.BotToken) != "" {
		if app.BotAPI, err = newBotAPI(cfg.BotToken); err != nil {
			app.Close()
			return nil, err
		}
	}
	if app.Signer, err = auth.NewSigner(cfg.JWTSecret, cfg.Env); err != nil {
		app.Close()
		return nil, err
	}

	buildServices(app)

	if err := seed(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = buildRouter(app)
	return app, nil
}

// Close releases the database pool and the Redis client.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_mode", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_mode", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildSessions(cfg config.Config) (intake.SessionStore, *redis.Client, error) {
	if cfg.SessionStore != "redis" {
		return intake.NewMemorySessions(), nil, nil
	}
	client, err := intake.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return intake.NewRedisSessions(client, cfg.SessionTTL), client, nil
}

func buildServices(app *App) {
	var (
		profileRepo profiles.Repo
		jobRepo     jobs.Repo
		appRepo     applications.Repo
		adminRepo   admin.Repo
	)
	if app.DB != nil {
		profileRepo = &profiles.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
		adminRepo = &admin.PGRepo{DB: app.DB}
	} else {
		memProfiles := profiles.NewMemoryRepo()
		catalog := jobs.NewMemoryRepo()
		ledger := applications.NewMemoryRepo(memProfiles, catalog)
		catalog.SetCounter(ledger)
		profileRepo, jobRepo, appRepo = memProfiles, catalog, ledger
		adminRepo = admin.NewMemoryRepo()
	}

	app.ProfilesService = profiles.NewService(profileRepo)
	app.JobsService = jobs.NewService(jobRepo)
	app.ApplicationsService = applications.NewService(appRepo, profileRepo, jobRepo)
	app.AdminService = admin.NewService(adminRepo, app.Signer)

	// The archive also serves panel downloads from the object store when no bot is configured.
	app.Archive = telegram.NewResumeArchive(app.BotAPI, app.Store, app.Config.AdminChatID)
	var sink intake.ResumeSink
	if app.BotAPI != nil {
		app.Notifier = telegram.NewNotifier(app.BotAPI)
		sink = app.Archive
	}
	app.Intake = intake.NewMachine(app.ProfilesService, app.Sessions, sink)

	app.Panel = admin.NewPanel(app.JobsService, app.ApplicationsService, app.ProfilesService, app.Archive)

	if app.BotAPI != nil {
		app.Bot = bot.New(app.BotAPI, app.ProfilesService, app.JobsService, app.ApplicationsService, app.Intake)
	}

	checks := map[string]health.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if app.Redis != nil {
		checks["redis"] = redisPinger{client: app.Redis}
	}
	app.Health = health.NewService(checks)
}

func seed(ctx context.Context, app *App) error {
	if _, err := app.AdminService.EnsureSeed(ctx, app.Config.AdminUsername, app.Config.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	path := strings.TrimSpace(app.Config.JobsSeedFile)
	if path == "" {
		return nil
	}
	inputs, err := jobs.LoadSeed(path)
	if err != nil {
		return err
	}
	n, err := app.JobsService.SeedIfEmpty(ctx, inputs)
	if err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	if n > 0 {
		telemetry.Info("bootstrap.jobs_seeded", map[string]any{"count": n, "file": path})
	}
	return nil
}

func buildRouter(app *App) *gin.Engine {
	// Handlers take the notifier as an interface; a nil *telegram.Notifier must stay a nil interface.
	var appNotifier applications.Notifier
	var userNotifier admin.Notifier
	if app.Notifier != nil {
		appNotifier = app.Notifier
		userNotifier = app.Notifier
	}
	return server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		Verifier:            app.Signer,
		Health:              app.Health,
		AuthHandler:         admin.NewAuthHandler(app.AdminService, !isDevLike(app.Config.Env)),
		AdminHandler:        admin.NewHandler(app.Panel, userNotifier),
		JobsHandler:         jobs.NewHandler(app.JobsService, app.ApplicationsService),
		ApplicationsHandler: applications.NewHandler(app.ApplicationsService, appNotifier),
		RateLimiter:         middleware.NewRateLimiter(nil),
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
