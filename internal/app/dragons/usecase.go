package dragons

import (
	"context"
	"errors"
	"time"

	"dragonden/internal/app/ports"
	"dragonden/internal/app/shared/actor"
	"dragonden/internal/app/shared/clock"
	"dragonden/internal/app/shared/ids"
	"dragonden/internal/app/shared/opmetrics"
	"dragonden/internal/app/shared/txretry"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/fight"
	"dragonden/internal/domain/ledger"
)

type CreateRequest struct {
	ActorID       string `json:"-"`
	Name          string `json:"name"`
	Size          string `json:"size"`
	Age           int    `json:"age"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	PreferredFood string `json:"preferred_food"`
}

type ListRequest struct {
	RiderID   string
	Size      string
	Unclaimed bool
}

type UpdateRequest struct {
	ActorID     string `json:"-"`
	DragonID    string `json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Age         *int    `json:"age"`
}

type DeleteRequest struct {
	ActorID  string
	DragonID string
}

type UseCase struct {
	TxManager ports.TxManager
	Dragons   ports.DragonRepository
	Users     ports.UserRepository
	Fights    ports.FightRepository
	Metrics   ports.OperationMetrics
	Now       func() time.Time
	NewID     func() string
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (out dragon.Dragon, err error) {
	defer func() { opmetrics.Record(u.Metrics, "dragon_create", err) }()

	size, err := dragon.ParseSize(req.Size)
	if err != nil {
		return dragon.Dragon{}, err
	}
	now := clock.Now(u.Now)
	d, err := dragon.New(u.newID(), dragon.Attributes{
		Name:          req.Name,
		Size:          size,
		Age:           req.Age,
		Description:   req.Description,
		Image:         req.Image,
		PreferredFood: req.PreferredFood,
	}, now)
	if err != nil {
		return dragon.Dragon{}, err
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := actor.Require(txCtx, u.Users, req.ActorID, account.CapManageDragons); err != nil {
			return err
		}
		return u.Dragons.SaveWithVersion(txCtx, d, 0)
	})
	if err != nil {
		return dragon.Dragon{}, err
	}
	return d.Project(now), nil
}

func (u UseCase) Get(ctx context.Context, id string) (dragon.Dragon, error) {
	d, err := u.Dragons.Get(ctx, id)
	if err != nil {
		return dragon.Dragon{}, err
	}
	return d.Project(clock.Now(u.Now)), nil
}

func (u UseCase) List(ctx context.Context, req ListRequest) ([]dragon.Dragon, error) {
	filter := ports.DragonFilter{RiderID: req.RiderID, Unclaimed: req.Unclaimed}
	if req.Size != "" {
		size, err := dragon.ParseSize(req.Size)
		if err != nil {
			return nil, err
		}
		filter.Size = size
	}
	items, err := u.Dragons.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := clock.Now(u.Now)
	for i := range items {
		items[i] = items[i].Project(now)
	}
	return items, nil
}

func (u UseCase) Update(ctx context.Context, req UpdateRequest) (out dragon.Dragon, err error) {
	defer func() { opmetrics.Record(u.Metrics, "dragon_update", err) }()

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		if _, err := actor.Require(txCtx, u.Users, req.ActorID, account.CapManageDragons); err != nil {
			return err
		}
		d, err := u.Dragons.Get(txCtx, req.DragonID)
		if err != nil {
			return err
		}
		next, err := d.ApplyPatch(dragon.Patch{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Age:         req.Age,
		}, now)
		if err != nil {
			return err
		}
		next.Version = d.Version + 1
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

// Delete removes a dragon, unlinks its rider and cancels its pending fights. Settled fights
// stay as history.
func (u UseCase) Delete(ctx context.Context, req DeleteRequest) (err error) {
	defer func() { opmetrics.Record(u.Metrics, "dragon_delete", err) }()

	now := clock.Now(u.Now)
	return txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		if _, err := actor.Require(txCtx, u.Users, req.ActorID, account.CapDeleteDragons); err != nil {
			return err
		}
		d, err := u.Dragons.Get(txCtx, req.DragonID)
		if err != nil {
			return err
		}

		if d.HasRider() {
			rider, err := u.Users.Get(txCtx, d.RiderID)
			switch {
			case errors.Is(err, ports.ErrNotFound):
			case err != nil:
				return err
			default:
				_, nextRider := ledger.Detach(d, rider)
				nextRider.Version = rider.Version + 1
				nextRider.UpdatedAt = now
				if err := u.Users.SaveWithVersion(txCtx, nextRider, rider.Version); err != nil {
					return err
				}
			}
		}

		pending, err := u.Fights.List(txCtx, ports.FightFilter{Status: fight.StatusPending, DragonID: d.ID}, 1, 0)
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

		return u.Dragons.Delete(txCtx, d.ID, d.Version)
	})
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return ids.New()
	}
	return u.NewID()
}
