package fights

import (
	"context"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/fight"
)

type StatsRequest struct {
	DragonID string
	// Verify recounts the record from the fight log and reports whether it matches.
	Verify bool
}

type StatsResponse struct {
	fight.Stats
	Consistent *bool         `json:"consistent,omitempty"`
	Recount    *fight.Record `json:"recount,omitempty"`
}

func (u UseCase) Stats(ctx context.Context, req StatsRequest) (StatsResponse, error) {
	d, err := u.Dragons.Get(ctx, req.DragonID)
	if err != nil {
		return StatsResponse{}, err
	}
	history, err := u.Fights.List(ctx, ports.FightFilter{DragonID: d.ID, Status: fight.StatusCompleted}, 1, 0)
	if err != nil {
		return StatsResponse{}, err
	}

	out := StatsResponse{Stats: fight.StatsFor(d, fight.LatestCompleted(d.ID, history))}
	if req.Verify {
		recount := fight.Tally(d.ID, history)
		consistent := recount == fight.RecordOf(d)
		out.Recount = &recount
		out.Consistent = &consistent
	}
	return out, nil
}
