package repository

import "context"

// Transactor runs fn as one atomic unit against the store.
// Repositories called with the ctx passed to fn take part in the same
// transaction; fn returning an error rolls every write back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
