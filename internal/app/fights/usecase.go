// Package fights runs the fight lifecycle: a rider initiates, a participant completes or
// cancels, and completion settles both dragons' records in the same transaction.
package fights

import (
	"context"
	"fmt"
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
	"dragonden/internal/errs"
)

type InitiateRequest struct {
	ActorID            string `json:"-"`
	ChallengerDragonID string `json:"challenger_dragon_id"`
	OpponentDragonID   string `json:"opponent_dragon_id"`
	Location           string `json:"location"`
	Notes              string `json:"notes"`
	Rounds             int    `json:"rounds"`
}

type CompleteRequest struct {
	ActorID         string `json:"-"`
	FightID         string `json:"-"`
	WinnerDragonID  string `json:"winner_dragon_id"`
	IsDraw          bool   `json:"is_draw"`
	ChallengerScore *int   `json:"challenger_score"`
	OpponentScore   *int   `json:"opponent_score"`
	Rounds          int    `json:"rounds"`
}

type CompleteResponse struct {
	Fight      fight.Fight   `json:"fight"`
	Challenger dragon.Dragon `json:"challenger"`
	Opponent   dragon.Dragon `json:"opponent"`
}

type CancelRequest struct {
	ActorID string
	FightID string
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

func (u UseCase) Initiate(ctx context.Context, req InitiateRequest) (out fight.Fight, err error) {
	defer func() { opmetrics.Record(u.Metrics, "fight_initiate", err) }()

	now := clock.Now(u.Now)
	id := u.newID()
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rider, err := actor.Resolve(txCtx, u.Users, req.ActorID)
		if err != nil {
			return err
		}
		challenger, err := u.Dragons.Get(txCtx, req.ChallengerDragonID)
		if err != nil {
			return err
		}
		opponent, err := u.Dragons.Get(txCtx, req.OpponentDragonID)
		if err != nil {
			return err
		}
		if !rider.Type.Can(account.CapRide) {
			return fmt.Errorf("%w: only dragon riders can start fights", errs.ErrForbidden)
		}

		f, err := fight.Initiate(id, challenger, opponent, rider.ID, fight.InitiateInput{
			Location: req.Location,
			Notes:    req.Notes,
			Rounds:   req.Rounds,
		}, now)
		if err != nil {
			return err
		}
		if err := u.Fights.SaveWithVersion(txCtx, f, 0); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return fight.Fight{}, err
	}
	return out, nil
}

// Complete settles a pending fight. Riders must be participants; administrators may settle
// any fight. A concurrent second completion re-reads the fight and fails with ErrInvalidState.
func (u UseCase) Complete(ctx context.Context, req CompleteRequest) (out CompleteResponse, err error) {
	defer func() { opmetrics.Record(u.Metrics, "fight_complete", err) }()

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		f, requester, err := u.loadForSettlement(txCtx, req.ActorID, req.FightID)
		if err != nil {
			return err
		}
		completed, outcome, err := fight.Complete(f, fight.CompleteInput{
			WinnerDragonID:  req.WinnerDragonID,
			IsDraw:          req.IsDraw,
			ChallengerScore: req.ChallengerScore,
			OpponentScore:   req.OpponentScore,
			Rounds:          req.Rounds,
		}, requester, now)
		if err != nil {
			return err
		}
		completed.Version = f.Version + 1
		if err := u.Fights.SaveWithVersion(txCtx, completed, f.Version); err != nil {
			return err
		}

		challenger, err := u.settle(txCtx, completed.Challenger.DragonID, outcome, now)
		if err != nil {
			return err
		}
		opponent, err := u.settle(txCtx, completed.Opponent.DragonID, outcome, now)
		if err != nil {
			return err
		}
		out = CompleteResponse{Fight: completed, Challenger: challenger, Opponent: opponent}
		return nil
	})
	if err != nil {
		return CompleteResponse{}, err
	}
	return out, nil
}

func (u UseCase) Cancel(ctx context.Context, req CancelRequest) (out fight.Fight, err error) {
	defer func() { opmetrics.Record(u.Metrics, "fight_cancel", err) }()

	now := clock.Now(u.Now)
	err = txretry.Run(ctx, u.TxManager, func(txCtx context.Context) error {
		f, requester, err := u.loadForSettlement(txCtx, req.ActorID, req.FightID)
		if err != nil {
			return err
		}
		cancelled, err := fight.Cancel(f, requester, now)
		if err != nil {
			return err
		}
		cancelled.Version = f.Version + 1
		if err := u.Fights.SaveWithVersion(txCtx, cancelled, f.Version); err != nil {
			return err
		}
		out = cancelled
		return nil
	})
	if err != nil {
		return fight.Fight{}, err
	}
	return out, nil
}

// loadForSettlement returns the fight and the rider id the domain checks participation
// against. Administrators get an empty id, which skips that check.
func (u UseCase) loadForSettlement(ctx context.Context, actorID, fightID string) (fight.Fight, string, error) {
	user, err := actor.Resolve(ctx, u.Users, actorID)
	if err != nil {
		return fight.Fight{}, "", err
	}
	f, err := u.Fights.Get(ctx, fightID)
	if err != nil {
		return fight.Fight{}, "", err
	}
	switch {
	case user.Type.Can(account.CapModerate):
		return f, "", nil
	case user.Type.Can(account.CapRide):
		return f, user.ID, nil
	default:
		return fight.Fight{}, "", fmt.Errorf("%w: only riders involved in the fight can settle it", errs.ErrForbidden)
	}
}

func (u UseCase) settle(ctx context.Context, dragonID string, outcome fight.Outcome, now time.Time) (dragon.Dragon, error) {
	d, err := u.Dragons.Get(ctx, dragonID)
	if err != nil {
		return dragon.Dragon{}, err
	}
	next := outcome.Apply(d, now)
	next.Version = d.Version + 1
	if err := u.Dragons.SaveWithVersion(ctx, next, d.Version); err != nil {
		return dragon.Dragon{}, err
	}
	return next.Project(now), nil
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return ids.New()
	}
	return u.NewID()
}
