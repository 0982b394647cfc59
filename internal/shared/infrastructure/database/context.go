package database

import (
	"context"
	"sync"
)

type txKey struct{}

// TxInfo is the transaction carried by a context. Owned is false for a
// nested unit of work that joined a transaction begun further up.
type TxInfo struct {
	Tx    Transaction
	Owned bool
	hooks *commitHooks
}

type commitHooks struct {
	mu  sync.Mutex
	fns []func()
}

func (h *commitHooks) add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) drain() []func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

// WithTx stores a transaction in the context.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	hooks := &commitHooks{}
	if info, ok := TxInfoFromContext(ctx); ok && info.Tx == tx && info.hooks != nil {
		hooks = info.hooks
	}
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned, hooks: hooks})
}

// TxFromContext returns the transaction in ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return nil
	}
	return info.Tx
}

// TxInfoFromContext returns the transaction info in ctx.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	return TxFromContext(ctx) != nil
}

// ExecutorFromContext returns the transaction in ctx when there is one and
// the connection otherwise, so repositories work the same inside and
// outside a unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// AfterCommit schedules fn to run once the owning transaction commits.
// Outside a transaction fn runs immediately. Hooks are discarded on rollback.
func AfterCommit(ctx context.Context, fn func()) {
	info, ok := TxInfoFromContext(ctx)
	if !ok || info.hooks == nil {
		fn()
		return
	}
	info.hooks.add(fn)
}
