package memory

import (
	"context"
	"slices"
	"strings"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/fight"
)

type FightRepo struct {
	store *Store
}

func NewFightRepo(store *Store) FightRepo {
	return FightRepo{store: store}
}

func (r FightRepo) Get(ctx context.Context, id string) (fight.Fight, error) {
	var (
		f  fight.Fight
		ok bool
	)
	r.store.read(ctx, func() { f, ok = r.store.fights[id] })
	if !ok {
		return fight.Fight{}, ports.ErrNotFound
	}
	return cloneFight(f), nil
}

func (r FightRepo) SaveWithVersion(ctx context.Context, f fight.Fight, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.fights[f.ID]
		switch {
		case !ok && expectedVersion != 0:
			return ports.ErrVersionConflict
		case ok && expectedVersion == 0:
			return ports.ErrDuplicate
		case ok && current.Version != expectedVersion:
			return ports.ErrVersionConflict
		}
		r.store.fights[f.ID] = cloneFight(f)
		return nil
	})
}

func (r FightRepo) List(ctx context.Context, filter ports.FightFilter, page, limit int) ([]fight.Fight, error) {
	matched := r.matching(ctx, filter)
	slices.SortFunc(matched, func(a, b fight.Fight) int {
		if c := b.FightDate.Compare(a.FightDate); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	start, end := pageBounds(len(matched), page, limit)
	return matched[start:end], nil
}

func (r FightRepo) CountAll(ctx context.Context, filter ports.FightFilter) (int64, error) {
	return int64(len(r.matching(ctx, filter))), nil
}

func (r FightRepo) matching(ctx context.Context, filter ports.FightFilter) []fight.Fight {
	out := []fight.Fight{}
	r.store.read(ctx, func() {
		for _, f := range r.store.fights {
			if filter.Status != "" && f.Status != filter.Status {
				continue
			}
			if filter.DragonID != "" && !f.Involves(filter.DragonID) {
				continue
			}
			if filter.RiderID != "" && !f.HasRider(filter.RiderID) {
				continue
			}
			out = append(out, cloneFight(f))
		}
	})
	return out
}
