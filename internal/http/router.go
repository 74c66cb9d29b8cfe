package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contactbook-backend/internal/http/middleware"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// ServiceName names server spans; tracing middleware is skipped when empty.
	ServiceName  string
	AllowOrigins []string

	ContactHandler *httpH.ContactHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/readyz", "/metrics"))
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Contacts
	if cfg.ContactHandler != nil {
		contacts := r.Group("/contacts")
		{
			contacts.POST("", cfg.ContactHandler.CreateContact)
			contacts.GET("/email/:email", cfg.ContactHandler.FindByEmail)
			contacts.POST("/search", cfg.ContactHandler.SearchContacts)
			contacts.GET("/by-phone", cfg.ContactHandler.FindByPhone)
			contacts.GET("/by-address", cfg.ContactHandler.FindByAddress)
			contacts.DELETE("/:documentType/:documentNumber", cfg.ContactHandler.DeleteContact)
			contacts.PATCH("/:documentType/:documentNumber", cfg.ContactHandler.UpdateContact)
		}
	}

	return r
}
