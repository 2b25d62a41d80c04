package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type (
	dbKey   struct{}
	dbTxKey struct{}
)

type dbTransaction struct {
	tx       *gorm.DB
	finished bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of this context if any, otherwise the
// database handle stored by WithDB.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !t.finished {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. Every repository call using the
// returned context joins it until CommitDBTransaction or
// WithRollbackDBTransaction is called.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// CommitDBTransaction commits the transaction of this context. It is a no-op if
// the transaction has finished before.
func CommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.finished {
		return nil
	}

	t.finished = true
	return t.tx.Commit().Error
}

// WithRollbackDBTransaction rollbacks the transaction of this context. It is
// safe to defer right after WithDBTransaction, a committed transaction is not
// touched.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.finished {
		return ctx
	}

	t.finished = true
	if err := t.tx.Rollback().Error; err != nil {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}

	return ctx
}
