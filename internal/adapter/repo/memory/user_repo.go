package memory

import (
	"context"
	"slices"
	"strings"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/account"
)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) UserRepo {
	return UserRepo{store: store}
}

func (r UserRepo) Get(ctx context.Context, id string) (account.User, error) {
	var (
		u  account.User
		ok bool
	)
	r.store.read(ctx, func() { u, ok = r.store.users[id] })
	if !ok {
		return account.User{}, ports.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r UserRepo) GetByUsername(ctx context.Context, username string) (account.User, error) {
	var (
		u  account.User
		ok bool
	)
	r.store.read(ctx, func() {
		for _, candidate := range r.store.users {
			if candidate.Username == username {
				u, ok = candidate, true
				return
			}
		}
	})
	if !ok {
		return account.User{}, ports.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r UserRepo) SaveWithVersion(ctx context.Context, u account.User, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		for id, other := range r.store.users {
			if id != u.ID && other.Username == u.Username {
				return ports.ErrDuplicate
			}
		}
		current, ok := r.store.users[u.ID]
		switch {
		case !ok && expectedVersion != 0:
			return ports.ErrVersionConflict
		case ok && expectedVersion == 0:
			return ports.ErrDuplicate
		case ok && current.Version != expectedVersion:
			return ports.ErrVersionConflict
		}
		r.store.users[u.ID] = cloneUser(u)
		return nil
	})
}

func (r UserRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.users[id]
		if !ok {
			return ports.ErrNotFound
		}
		if current.Version != expectedVersion {
			return ports.ErrVersionConflict
		}
		delete(r.store.users, id)
		return nil
	})
}

func (r UserRepo) List(ctx context.Context) ([]account.User, error) {
	out := []account.User{}
	r.store.read(ctx, func() {
		for _, u := range r.store.users {
			out = append(out, cloneUser(u))
		}
	})
	slices.SortFunc(out, func(a, b account.User) int { return strings.Compare(a.Username, b.Username) })
	return out, nil
}
