package dragons

import (
	"context"

	"dragonden/internal/app/shared/clock"
	"dragonden/internal/domain/dragon"
)

var demoDragons = []dragon.Attributes{
	{
		Name:        "Drogon",
		Size:        dragon.SizeLarge,
		Age:         8,
		Description: "The largest and most aggressive of Daenerys's dragons, with black and red scales.",
	},
	{
		Name:        "Rhaegal",
		Size:        dragon.SizeMedium,
		Age:         7,
		Description: "A green and bronze dragon, named after Rhaegar Targaryen.",
	},
	{
		Name:        "Viserion",
		Size:        dragon.SizeMedium,
		Age:         7,
		Description: "A cream and gold dragon, named after Viserys Targaryen.",
	},
}

// SeedDemo stores the demo dragons when the den is empty and returns how many it added.
// It runs at startup and bypasses role checks.
func (u UseCase) SeedDemo(ctx context.Context) (int, error) {
	added := 0
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := u.Dragons.Count(txCtx)
		if err != nil || n > 0 {
			return err
		}
		now := clock.Now(u.Now)
		for _, attrs := range demoDragons {
			d, err := dragon.New(u.newID(), attrs, now)
			if err != nil {
				return err
			}
			if err := u.Dragons.SaveWithVersion(txCtx, d, 0); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
