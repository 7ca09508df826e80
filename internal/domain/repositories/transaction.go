package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager groups KV writes so they commit or fail together.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}

// DirectTx runs fn without a transaction, for backends whose single-key
// writes are the only unit of atomicity.
type DirectTx struct{}

func (DirectTx) ExecTx(ctx context.Context, fn TxFn) error {
	return fn(ctx)
}
