package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/clients/redis"
	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

const slowStoreOp = 500 * time.Millisecond

type Services struct {
	ContactStore domainagg.ContactStore
	Contact      services.ContactService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, events redis.ContactEventBus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	store := aggregates.NewContactStore(aggregates.ContactStoreDeps{
		Base: aggregates.BaseDeps{
			DB:  db,
			Log: log,
			Hooks: aggregates.CombineHooks(
				aggregates.NewMetricsHooks(metrics),
				aggregates.NewLogHooks(log, slowStoreOp),
			),
		},
		Contacts:  reposet.Contact,
		Phones:    reposet.Phone,
		Addresses: reposet.Address,
	})
	return Services{
		ContactStore: store,
		Contact:      services.NewContactService(log, store, events, metrics),
	}
}
