package app

import (
	"github.com/yungbote/contactbook-backend/internal/clients/redis"
	"github.com/yungbote/contactbook-backend/internal/data/db"
	"github.com/yungbote/contactbook-backend/internal/platform/envutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string

	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string

	RedisAddr    string
	RedisChannel string

	MetricsEnabled bool

	OtelEnabled     bool
	OtelServiceName string
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool
	OtelSampleRatio float64

	CORSAllowOrigins []string
	SeedFile         string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: envutil.String("PORT", "8080", log),

		DBDriver: envutil.String("DB_DRIVER", DriverPostgres, log),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost", log),
			Port:     envutil.String("POSTGRES_PORT", "5432", log),
			User:     envutil.String("POSTGRES_USER", "postgres", log),
			Password: envutil.Secret("POSTGRES_PASSWORD", "", log),
			Name:     envutil.String("POSTGRES_NAME", "contactbook", log),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		},
		SQLitePath: envutil.String("SQLITE_PATH", "contactbook.db", log),

		RedisAddr:    envutil.String("REDIS_ADDR", "", log),
		RedisChannel: envutil.String("REDIS_CHANNEL", redis.DefaultChannel, log),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true, log),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false, log),
		OtelServiceName: envutil.String("OTEL_SERVICE_NAME", "contactbook", log),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		OtelHeaders:     envutil.Secret("OTEL_EXPORTER_OTLP_HEADERS", "", log),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),

		CORSAllowOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil, log),
		SeedFile:         envutil.String("SEED_FILE", "data/contacts.yaml", log),
	}
}
