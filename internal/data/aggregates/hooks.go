package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// Hooks receives one signal per store operation plus conflict and retry marks.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewMetricsHooks reports store operations to the Prometheus collectors in
// metrics. A nil metrics set disables reporting.
func NewMetricsHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &metricsHooks{metrics: metrics}
}

func (h *metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h *metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(strings.TrimSpace(name))
}

type logHooks struct {
	log  *logger.Logger
	slow time.Duration
}

// NewLogHooks logs operations slower than slow, and every conflict and retry.
// slow <= 0 disables slow-operation logging.
func NewLogHooks(log *logger.Logger, slow time.Duration) Hooks {
	if log == nil {
		return noopHooks{}
	}
	return &logHooks{log: log.With("component", "ContactStore"), slow: slow}
}

func (h *logHooks) ObserveOperation(name, status string, dur time.Duration) {
	if h.slow > 0 && dur >= h.slow {
		h.log.Warn("slow store operation", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	}
}

func (h *logHooks) IncConflict(name string) {
	h.log.Info("store conflict", "op", name)
}

func (h *logHooks) IncRetry(name string) {
	h.log.Warn("store operation retryable", "op", name)
}

type multiHooks []Hooks

// CombineHooks fans every signal out to each non-nil hook in order.
func CombineHooks(hooks ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	switch len(out) {
	case 0:
		return noopHooks{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiHooks) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range m {
		h.ObserveOperation(name, status, dur)
	}
}

func (m multiHooks) IncConflict(name string) {
	for _, h := range m {
		h.IncConflict(name)
	}
}

func (m multiHooks) IncRetry(name string) {
	for _, h := range m {
		h.IncRetry(name)
	}
}
