// Package txn defines the unit-of-work boundary used by services that touch
// more than one aggregate.
package txn

import "context"

// Manager runs fn inside a single database transaction. Repositories called
// with the ctx passed to fn join that transaction. A returned error rolls
// it back.
type Manager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
