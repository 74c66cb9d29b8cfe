package observability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const namespace = "contactbook"

// Metrics holds the Prometheus collectors for one process. Every Metrics
// owns its registry, so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	contactEvents *prometheus.CounterVec

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		aggregateOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_operations_total",
			Help:      "Contact store operations by name and status.",
		}, []string{"operation", "status"}),
		aggregateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_operation_duration_seconds",
			Help:      "Contact store operation latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		aggregateConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_conflicts_total",
			Help:      "Contact store operations that failed on a unique key.",
		}, []string{"operation"}),
		aggregateRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_retryable_total",
			Help:      "Contact store operations that failed transiently.",
		}, []string{"operation"}),
		contactEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_events_total",
			Help:      "Contact change events by type and publish outcome.",
		}, []string{"type", "outcome"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_up",
			Help:      "Redis connectivity (1=up, 0=down).",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_ping_seconds",
			Help:      "Latency of the last Redis ping.",
		}),
	}
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.WithLabelValues(name, status).Inc()
	m.aggregateLatency.WithLabelValues(name).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(name).Inc()
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(name).Inc()
}

func (m *Metrics) IncContactEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.contactEvents.WithLabelValues(eventType, outcome).Inc()
}

// RegisterDBStats exports database/sql pool stats for db.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB, dbName string) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, strings.TrimSpace(dbName))); err != nil && log != nil {
		log.Warn("metrics: db stats collector not registered", "error", err)
	}
}

// StartRedisCollector pings rdb every interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
