package database

import (
	"context"
	"errors"
)

var (
	// ErrNoTransaction is returned when Commit or Rollback finds no transaction in the context.
	ErrNoTransaction = errors.New("no transaction in context")
	// ErrReadOnlyTransaction is returned when a read-write unit of work tries
	// to join a read-only snapshot.
	ErrReadOnlyTransaction = errors.New("cannot join read-only transaction for writes")
)

// GenericUnitOfWork implements application.UnitOfWork over a Connection.
type GenericUnitOfWork struct {
	conn Connection
	opts TxOptions
}

// NewUnitOfWork creates a unit of work with read-write transactions.
// The seeder and migrator use it.
func NewUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn}
}

// NewReadOnlyUnitOfWork creates a unit of work whose transactions are
// read-only snapshots. Report loads use it.
func NewReadOnlyUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn, opts: TxOptions{ReadOnly: true}}
}

// Begin binds a transaction to the returned context. When ctx already
// carries one, it is joined without taking ownership, so only the outermost
// unit commits or rolls back.
func (u *GenericUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := scopeFromContext(ctx); ok {
		if scope.readOnly && !u.opts.ReadOnly {
			return nil, ErrReadOnlyTransaction
		}
		scope.owned = false
		return withScope(ctx, scope), nil
	}

	tx, err := u.conn.BeginTx(ctx, u.opts)
	if err != nil {
		return nil, err
	}

	return withScope(ctx, txScope{tx: tx, owned: true, readOnly: u.opts.ReadOnly}), nil
}

// Commit commits the transaction if this unit owns it.
func (u *GenericUnitOfWork) Commit(ctx context.Context) error {
	scope, ok := scopeFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owned {
		return nil
	}
	return scope.tx.Commit(ctx)
}

// Rollback rolls back the transaction if this unit owns it.
func (u *GenericUnitOfWork) Rollback(ctx context.Context) error {
	scope, ok := scopeFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owned {
		return nil
	}
	return scope.tx.Rollback(ctx)
}
