package txretry

import (
	"context"
	"errors"

	"dragonden/internal/app/ports"
)

const DefaultAttempts = 3

// Run executes fn in a transaction and re-runs the whole unit when a versioned save loses a race.
// The re-run reloads fresh state, so the loser observes the winner's commit.
func Run(ctx context.Context, tx ports.TxManager, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < DefaultAttempts; i++ {
		err = tx.RunInTx(ctx, fn)
		if !errors.Is(err, ports.ErrVersionConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
