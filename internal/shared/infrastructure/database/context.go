package database

import "context"

type txScopeKey struct{}

// txScope is the transaction bound to a context. owned is false when a
// nested unit of work joined a transaction started further up the call chain.
type txScope struct {
	tx       Transaction
	owned    bool
	readOnly bool
}

func withScope(ctx context.Context, scope txScope) context.Context {
	return context.WithValue(ctx, txScopeKey{}, scope)
}

func scopeFromContext(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txScopeKey{}).(txScope)
	if !ok || scope.tx == nil {
		return txScope{}, false
	}
	return scope, true
}

// TxFromContext returns the transaction bound to ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	scope, _ := scopeFromContext(ctx)
	return scope.tx
}

// InReadOnlyTx reports whether ctx carries a read-only snapshot transaction.
func InReadOnlyTx(ctx context.Context) bool {
	scope, ok := scopeFromContext(ctx)
	return ok && scope.readOnly
}

// ExecutorFromContext returns the bound transaction, falling back to conn.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
