package ports

import (
	"context"

	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/fight"
)

// Every SaveWithVersion inserts when expectedVersion is 0 and otherwise updates only if the
// stored version still equals expectedVersion, returning ErrVersionConflict when it does not.

type DragonFilter struct {
	RiderID   string
	Size      dragon.Size
	Unclaimed bool
}

type DragonRepository interface {
	Get(ctx context.Context, id string) (dragon.Dragon, error)
	SaveWithVersion(ctx context.Context, d dragon.Dragon, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
	List(ctx context.Context, filter DragonFilter) ([]dragon.Dragon, error)
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Get(ctx context.Context, id string) (account.User, error)
	GetByUsername(ctx context.Context, username string) (account.User, error)
	SaveWithVersion(ctx context.Context, u account.User, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
	List(ctx context.Context) ([]account.User, error)
}

type FightFilter struct {
	Status   fight.Status
	DragonID string
	RiderID  string
}

type FightRepository interface {
	Get(ctx context.Context, id string) (fight.Fight, error)
	SaveWithVersion(ctx context.Context, f fight.Fight, expectedVersion int64) error
	// List orders by fight date, newest first. page is 1-based; limit <= 0 means no limit.
	List(ctx context.Context, filter FightFilter, page, limit int) ([]fight.Fight, error)
	CountAll(ctx context.Context, filter FightFilter) (int64, error)
}
