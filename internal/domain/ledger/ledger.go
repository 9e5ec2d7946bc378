// Package ledger keeps Dragon.RiderID and User.AcquiredDragons in step. Every function returns
// both updated snapshots; callers persist them together or not at all.
package ledger

import (
	"fmt"

	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/errs"
)

func Acquire(d dragon.Dragon, u account.User) (dragon.Dragon, account.User, error) {
	if u.Type != account.Rider {
		return dragon.Dragon{}, account.User{}, fmt.Errorf("%w: only dragon riders can acquire dragons", errs.ErrForbidden)
	}
	if d.HasRider() {
		return dragon.Dragon{}, account.User{}, fmt.Errorf("%w: dragon %s already has a rider", errs.ErrConflict, d.ID)
	}
	d.RiderID = u.ID
	return d, u.WithDragon(d.ID), nil
}

func Release(d dragon.Dragon, u account.User) (dragon.Dragon, account.User, error) {
	if !d.HasRider() || d.RiderID != u.ID {
		return dragon.Dragon{}, account.User{}, fmt.Errorf("%w: user %s does not ride dragon %s", errs.ErrForbidden, u.ID, d.ID)
	}
	d.RiderID = ""
	return d, u.WithoutDragon(d.ID), nil
}

// Detach clears a rider link from whichever side still holds it. It is used when one side is
// being deleted and never fails.
func Detach(d dragon.Dragon, u account.User) (dragon.Dragon, account.User) {
	if d.RiderID == u.ID {
		d.RiderID = ""
	}
	return d, u.WithoutDragon(d.ID)
}
