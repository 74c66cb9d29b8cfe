package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

// InjectedTxRunner injects transaction faults into store tests. With DB set
// the body runs inside a real transaction and an injected commit failure is
// returned from inside it, so the body's writes are rolled back. Without DB the
// body gets a context with no transaction.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}

	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.DB != nil {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return body(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
