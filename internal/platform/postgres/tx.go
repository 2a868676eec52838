package postgres

import (
	"context"
	"database/sql"
	"time"

	dErrors "lendmatch/pkg/domain-errors"
	txcontext "lendmatch/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Transactor runs service units of work in one database transaction. Stores
// and the audit outbox pick the transaction up from ctx.
type Transactor struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db, timeout: defaultTxTimeout}
}

func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return txcontext.Run(ctx, t.db, fn)
}
