// Package riders binds and unbinds riders and dragons.
package riders

import (
	"context"
	"time"

	"dragonden/internal/app/ports"
	"dragonden/internal/app/shared/actor"
	"dragonden/internal/app/shared/clock"
	"dragonden/internal/app/shared/opmetrics"
	"dragonden/internal/app/shared/txretry"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/ledger"
)

type Request struct {
	ActorID  string
	DragonID string
}

type Response struct {
	Dragon dragon.Dragon `json:"dragon"`
	Rider  account.User  `json:"rider"`
}

type UseCase struct {
	TxManager ports.TxManager
	Dragons   ports.DragonRepository
	Users     ports.UserRepository
	Metrics   ports.OperationMetrics
	Now       func() time.Time
}

func (u UseCase) Acquire(ctx context.Context, req Request) (Response, error) {
	return u.run(ctx, "dragon_acquire", req, ledger.Acquire)
}

func (u UseCase) Release(ctx context.Context, req Request) (Response, error) {
	return u.run(ctx, "dragon_release", req, ledger.Release)
}

type transition func(dragon.Dragon, account.User) (dragon.Dragon, account.User, error)

func (u UseCase) run(ctx context.Context, op string, req Request, apply transition) (out Response, err error) {
	defer func() { opmetrics.Record(u.Metrics, op, err) }()

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		user, err := actor.Resolve(txCtx, u.Users, req.ActorID)
		if err != nil {
			return err
		}
		d, err := u.Dragons.Get(txCtx, req.DragonID)
		if err != nil {
			return err
		}

		nextDragon, nextUser, err := apply(d, user)
		if err != nil {
			return err
		}
		nextDragon.Version = d.Version + 1
		nextDragon.UpdatedAt = now
		nextUser.Version = user.Version + 1
		nextUser.UpdatedAt = now

		if err := u.Dragons.SaveWithVersion(txCtx, nextDragon, d.Version); err != nil {
			return err
		}
		if err := u.Users.SaveWithVersion(txCtx, nextUser, user.Version); err != nil {
			return err
		}
		out = Response{Dragon: nextDragon.Project(now), Rider: nextUser}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}
