// Package keeper holds the care operations dragon keepers perform: healing, damage, health
// overrides and feeding.
package keeper

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
)

type HealRequest struct {
	ActorID  string
	DragonID string
	Amount   int
}

type DamageRequest struct {
	ActorID  string
	DragonID string
	Amount   int
}

// SetHealthRequest overrides health fields verbatim. Nil fields are left alone.
type SetHealthRequest struct {
	ActorID       string
	DragonID      string
	CurrentHealth *int
	HealthStatus  *string
}

type FeedRequest struct {
	ActorID  string
	DragonID string
	Food     string
}

type FeedResponse struct {
	Dragon dragon.Dragon     `json:"dragon"`
	Result dragon.FeedResult `json:"feeding"`
}

type PreferredFoodRequest struct {
	ActorID  string
	DragonID string
	Food     string
}

type UseCase struct {
	TxManager ports.TxManager
	Dragons   ports.DragonRepository
	Users     ports.UserRepository
	Metrics   ports.OperationMetrics
	Now       func() time.Time
}

func (u UseCase) Heal(ctx context.Context, req HealRequest) (dragon.Dragon, error) {
	return u.tend(ctx, "dragon_heal", req.ActorID, req.DragonID, func(d dragon.Dragon, now time.Time) (dragon.Dragon, error) {
		return d.Heal(req.Amount, now)
	})
}

func (u UseCase) Damage(ctx context.Context, req DamageRequest) (dragon.Dragon, error) {
	return u.tend(ctx, "dragon_damage", req.ActorID, req.DragonID, func(d dragon.Dragon, now time.Time) (dragon.Dragon, error) {
		return d.Damage(req.Amount, now)
	})
}

func (u UseCase) SetHealth(ctx context.Context, req SetHealthRequest) (dragon.Dragon, error) {
	var status *dragon.HealthStatus
	if req.HealthStatus != nil {
		parsed, err := dragon.ParseHealthStatus(*req.HealthStatus)
		if err != nil {
			opmetrics.Record(u.Metrics, "dragon_set_health", err)
			return dragon.Dragon{}, err
		}
		status = &parsed
	}
	return u.tend(ctx, "dragon_set_health", req.ActorID, req.DragonID, func(d dragon.Dragon, now time.Time) (dragon.Dragon, error) {
		return d.SetHealth(req.CurrentHealth, status, now), nil
	})
}

func (u UseCase) Feed(ctx context.Context, req FeedRequest) (FeedResponse, error) {
	var result dragon.FeedResult
	d, err := u.tend(ctx, "dragon_feed", req.ActorID, req.DragonID, func(d dragon.Dragon, now time.Time) (dragon.Dragon, error) {
		var fed dragon.Dragon
		fed, result = d.Feed(req.Food, now)
		return fed, nil
	})
	if err != nil {
		return FeedResponse{}, err
	}
	return FeedResponse{Dragon: d, Result: result}, nil
}

func (u UseCase) SetPreferredFood(ctx context.Context, req PreferredFoodRequest) (dragon.Dragon, error) {
	return u.tend(ctx, "dragon_preferred_food", req.ActorID, req.DragonID, func(d dragon.Dragon, now time.Time) (dragon.Dragon, error) {
		return d.SetPreferredFood(req.Food, now)
	})
}

type mutation func(d dragon.Dragon, now time.Time) (dragon.Dragon, error)

func (u UseCase) tend(ctx context.Context, op, actorID, dragonID string, mutate mutation) (out dragon.Dragon, err error) {
	defer func() { opmetrics.Record(u.Metrics, op, err) }()

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		if _, err := actor.Require(txCtx, u.Users, actorID, account.CapTend); err != nil {
			return err
		}
		d, err := u.Dragons.Get(txCtx, dragonID)
		if err != nil {
			return err
		}
		next, err := mutate(d, now)
		if err != nil {
			return err
		}
		next.Version = d.Version + 1
		next.UpdatedAt = now
		if err := u.Dragons.SaveWithVersion(txCtx, next, d.Version); err != nil {
			return err
		}
		out = next.Project(now)
		return nil
	})
	if err != nil {
		return dragon.Dragon{}, err
	}
	return out, nil
}
