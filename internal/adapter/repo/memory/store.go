package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/fight"
)

type Store struct {
	mu      sync.RWMutex
	dragons map[string]dragon.Dragon
	users   map[string]account.User
	fights  map[string]fight.Fight
}

func NewStore() *Store {
	return &Store{
		dragons: make(map[string]dragon.Dragon),
		users:   make(map[string]account.User),
		fights:  make(map[string]fight.Fight),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// read and write take the store lock unless the caller already holds it through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type snapshot struct {
	dragons map[string]dragon.Dragon
	users   map[string]account.User
	fights  map[string]fight.Fight
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		dragons: maps.Clone(s.dragons),
		users:   maps.Clone(s.users),
		fights:  maps.Clone(s.fights),
	}
}

func (s *Store) restore(snap snapshot) {
	s.dragons = snap.dragons
	s.users = snap.users
	s.fights = snap.fights
}

func cloneUser(u account.User) account.User {
	u.AcquiredDragons = slices.Clone(u.AcquiredDragons)
	u.PasswordHash = slices.Clone(u.PasswordHash)
	u.PasswordSalt = slices.Clone(u.PasswordSalt)
	return u
}

func cloneFight(f fight.Fight) fight.Fight {
	if f.Result != nil {
		r := *f.Result
		f.Result = &r
	}
	return f
}

func pageBounds(total, page, limit int) (int, int) {
	if limit <= 0 {
		return 0, total
	}
	if page < 1 {
		page = 1
	}
	start := min((page-1)*limit, total)
	return start, min(start+limit, total)
}
