package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

// TxRunner owns the transaction boundary for contact writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

// InTx runs fn in one GORM transaction bound to ctx. A context that is already
// done is reported before a connection is taken.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "contacts.store.tx", "transaction runner has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
