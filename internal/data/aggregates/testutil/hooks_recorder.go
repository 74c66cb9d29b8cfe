package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
)

// HooksRecorder captures store hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

// Statuses lists the recorded statuses of op in call order.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, ev := range h.Operations {
		if ev.Name == op {
			out = append(out, ev.Status)
		}
	}
	return out
}

// Failed reports every operation that did not end in success.
func (h *HooksRecorder) Failed() []OperationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []OperationEvent
	for _, ev := range h.Operations {
		if ev.Status != "success" {
			out = append(out, ev)
		}
	}
	return out
}

func (h *HooksRecorder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations, h.Conflicts, h.Retries = nil, nil, nil
}
