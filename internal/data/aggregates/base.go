package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// executeWrite runs fn inside a fresh transaction owned by the runner.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.write")
	err := deps.Runner.InTx(ctx, fn)
	return observe(deps, op, start, err)
}

// executeStep runs fn on the caller's transaction when one is attached. A
// multi-statement step without one opens its own transaction when the
// contract gives the aggregate ownership, and is refused otherwise.
func executeStep(dbc dbctx.Context, deps BaseDeps, contract domainagg.Contract, op string, multiStatement bool, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op, "aggregate.step")
	if dbc.Ctx == nil {
		dbc.Ctx = context.Background()
	}
	var err error
	switch {
	case dbc.Tx != nil || !multiStatement:
		err = fn(dbc)
	case contract.RequiresAggregateOwnedTx():
		err = deps.Runner.InTx(dbc.Ctx, fn)
	default:
		err = InvariantError(fmt.Sprintf("%s: %s needs a caller transaction", contract.Name, op))
	}
	return observe(deps, op, start, err)
}

func observe(deps BaseDeps, op string, start time.Time, err error) error {
	mapped := MapError(op, err)
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func normalizeOp(op, fallback string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return fallback
	}
	return op
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
