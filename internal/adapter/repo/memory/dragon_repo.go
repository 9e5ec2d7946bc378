package memory

import (
	"context"
	"slices"
	"strings"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/dragon"
)

type DragonRepo struct {
	store *Store
}

func NewDragonRepo(store *Store) DragonRepo {
	return DragonRepo{store: store}
}

func (r DragonRepo) Get(ctx context.Context, id string) (dragon.Dragon, error) {
	var (
		d  dragon.Dragon
		ok bool
	)
	r.store.read(ctx, func() { d, ok = r.store.dragons[id] })
	if !ok {
		return dragon.Dragon{}, ports.ErrNotFound
	}
	return d, nil
}

func (r DragonRepo) SaveWithVersion(ctx context.Context, d dragon.Dragon, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.dragons[d.ID]
		if !ok {
			if expectedVersion != 0 {
				return ports.ErrVersionConflict
			}
			r.store.dragons[d.ID] = d
			return nil
		}
		if expectedVersion == 0 {
			return ports.ErrDuplicate
		}
		if current.Version != expectedVersion {
			return ports.ErrVersionConflict
		}
		r.store.dragons[d.ID] = d
		return nil
	})
}

func (r DragonRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.dragons[id]
		if !ok {
			return ports.ErrNotFound
		}
		if current.Version != expectedVersion {
			return ports.ErrVersionConflict
		}
		delete(r.store.dragons, id)
		return nil
	})
}

func (r DragonRepo) List(ctx context.Context, filter ports.DragonFilter) ([]dragon.Dragon, error) {
	out := []dragon.Dragon{}
	r.store.read(ctx, func() {
		for _, d := range r.store.dragons {
			if filter.RiderID != "" && d.RiderID != filter.RiderID {
				continue
			}
			if filter.Size != "" && d.Size != filter.Size {
				continue
			}
			if filter.Unclaimed && d.HasRider() {
				continue
			}
			out = append(out, d)
		}
	})
	slices.SortFunc(out, func(a, b dragon.Dragon) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r DragonRepo) Count(ctx context.Context) (int64, error) {
	var n int
	r.store.read(ctx, func() { n = len(r.store.dragons) })
	return int64(n), nil
}
