package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/clients/redis"
	"github.com/yungbote/contactbook-backend/internal/data/db"
	apphttp "github.com/yungbote/contactbook-backend/internal/http"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	database     *db.Service
	rdb          *goredis.Client
	events       redis.ContactEventBus
	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDatabase connects to the configured driver without migrating.
func OpenDatabase(log *logger.Logger, cfg Config) (*db.Service, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return db.NewPostgresService(log, cfg.Postgres)
	case DriverSQLite:
		return db.NewSQLiteService(log, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	database, err := OpenDatabase(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := database.DB()

	a := &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		database: database,
	}

	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: os.Getenv("LOG_MODE"),
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	if cfg.MetricsEnabled {
		a.Metrics = observability.NewMetrics()
		a.Metrics.RegisterDBStats(log, theDB, cfg.DBDriver)
	}

	a.events = redis.NewNoopEventBus()
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.rdb = rdb
		bus, err := redis.NewContactEventBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.events = bus
	}

	sqlDB, err := theDB.DB()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("sql handle: %w", err)
	}

	a.Repos = wireRepos(theDB, log)
	a.Services = wireServices(theDB, log, a.Repos, a.events, a.Metrics)
	handlerset := wireHandlers(log, a.Services, sqlDB)
	a.Server = wireServer(log, cfg, handlerset, a.Metrics)
	return a, nil
}

// Start launches background collectors; they stop when ctx is done.
func (a *App) Start(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Metrics != nil && a.rdb != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.rdb, 10*time.Second)
	}
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

// Events exposes the contact event bus for subscribers.
func (a *App) Events() redis.ContactEventBus {
	return a.events
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.events != nil {
		_ = a.events.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
