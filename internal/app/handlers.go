package app

import (
	"github.com/yungbote/contactbook-backend/internal/http/handlers"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, db handlers.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Contact: handlers.NewContactHandler(serviceset.Contact),
		Health:  handlers.NewHealthHandler(db),
	}
}
