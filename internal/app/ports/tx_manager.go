package ports

import "context"

// TxManager runs fn as one unit of work. Repositories must be called with the ctx handed to fn;
// any error returned by fn discards every write made through it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
