package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dragonden/internal/app/ports"
	"dragonden/internal/app/shared/actor"
	"dragonden/internal/app/shared/clock"
	"dragonden/internal/app/shared/opmetrics"
	"dragonden/internal/app/shared/txretry"
	"dragonden/internal/crypto"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/fight"
	"dragonden/internal/domain/ledger"
	"dragonden/internal/errs"
)

type UpdateRequest struct {
	ActorID  string `json:"-"`
	UserID   string `json:"-"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type DeleteRequest struct {
	ActorID string
	UserID  string
}

type UseCase struct {
	TxManager ports.TxManager
	Users     ports.UserRepository
	Dragons   ports.DragonRepository
	Fights    ports.FightRepository
	Metrics   ports.OperationMetrics
	Now       func() time.Time
}

func (u UseCase) Get(ctx context.Context, id string) (account.User, error) {
	return u.Users.Get(ctx, id)
}

func (u UseCase) GetByUsername(ctx context.Context, username string) (account.User, error) {
	return u.Users.GetByUsername(ctx, strings.TrimSpace(username))
}

func (u UseCase) List(ctx context.Context) ([]account.User, error) {
	return u.Users.List(ctx)
}

// Update changes a user's display name or password. Users edit themselves; administrators
// may edit anyone.
func (u UseCase) Update(ctx context.Context, req UpdateRequest) (out account.User, err error) {
	defer func() { opmetrics.Record(u.Metrics, "user_update", err) }()

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return account.User{}, fmt.Errorf("%w: name must not be empty", errs.ErrInvalidArgument)
		}
	}
	var hash, salt []byte
	if req.Password != nil {
		if *req.Password == "" {
			return account.User{}, fmt.Errorf("%w: password must not be empty", errs.ErrInvalidArgument)
		}
		if hash, salt, err = crypto.NewPassword(*req.Password); err != nil {
			return account.User{}, err
		}
	}

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		target, err := u.authorize(txCtx, req.ActorID, req.UserID)
		if err != nil {
			return err
		}
		next := target
		if req.Name != nil {
			next.Name = name
		}
		if req.Password != nil {
			next.PasswordHash, next.PasswordSalt = hash, salt
		}
		next.Version = target.Version + 1
		next.UpdatedAt = now
		if err := u.Users.SaveWithVersion(txCtx, next, target.Version); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return account.User{}, err
	}
	return out, nil
}

// Delete removes a user after releasing every dragon they ride and cancelling the pending
// fights they take part in.
func (u UseCase) Delete(ctx context.Context, req DeleteRequest) (err error) {
	defer func() { opmetrics.Record(u.Metrics, "user_delete", err) }()

	now := clock.Now(u.Now)
	return txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		target, err := u.authorize(txCtx, req.ActorID, req.UserID)
		if err != nil {
			return err
		}

		for _, dragonID := range target.AcquiredDragons {
			d, err := u.Dragons.Get(txCtx, dragonID)
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if d.RiderID != target.ID {
				continue
			}
			next, _ := ledger.Detach(d, target)
			next.Version = d.Version + 1
			next.UpdatedAt = now
			if err := u.Dragons.SaveWithVersion(txCtx, next, d.Version); err != nil {
				return err
			}
		}

		pending, err := u.Fights.List(txCtx, ports.FightFilter{Status: fight.StatusPending, RiderID: target.ID}, 1, 0)
		if err != nil {
			return err
		}
		for _, f := range pending {
			cancelled, err := fight.Cancel(f, "", now)
			if err != nil {
				return err
			}
			cancelled.Version = f.Version + 1
			if err := u.Fights.SaveWithVersion(txCtx, cancelled, f.Version); err != nil {
				return err
			}
		}

		return u.Users.Delete(txCtx, target.ID, target.Version)
	})
}

func (u UseCase) authorize(ctx context.Context, actorID, userID string) (account.User, error) {
	acting, err := actor.Resolve(ctx, u.Users, actorID)
	if err != nil {
		return account.User{}, err
	}
	if acting.ID == userID {
		return acting, nil
	}
	if !acting.Type.Can(account.CapModerate) {
		return account.User{}, fmt.Errorf("%w: users may only manage their own account", errs.ErrForbidden)
	}
	return u.Users.Get(ctx, userID)
}
