package app

import (
	apphttp "github.com/yungbote/contactbook-backend/internal/http"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers, metrics *observability.Metrics) *apphttp.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		AllowOrigins:   cfg.CORSAllowOrigins,
		ContactHandler: handlerset.Contact,
		HealthHandler:  handlerset.Health,
	})
}
