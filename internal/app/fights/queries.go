package fights

import (
	"context"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/fight"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type ListRequest struct {
	Status   string
	DragonID string
	Page     int
	Limit    int
}

type Page struct {
	Fights []fight.Fight `json:"fights"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
	Pages  int           `json:"pages"`
}

type Participants struct {
	FightID    string     `json:"fight_id"`
	Challenger fight.Side `json:"challenger"`
	Opponent   fight.Side `json:"opponent"`
}

func (u UseCase) Get(ctx context.Context, id string) (fight.Fight, error) {
	return u.Fights.Get(ctx, id)
}

// ListForDragon returns every fight the dragon took part in, newest first.
func (u UseCase) ListForDragon(ctx context.Context, dragonID string) ([]fight.Fight, error) {
	if _, err := u.Dragons.Get(ctx, dragonID); err != nil {
		return nil, err
	}
	return u.Fights.List(ctx, ports.FightFilter{DragonID: dragonID}, 1, 0)
}

func (u UseCase) List(ctx context.Context, req ListRequest) (Page, error) {
	filter := ports.FightFilter{DragonID: req.DragonID}
	if req.Status != "" {
		status, err := fight.ParseStatus(req.Status)
		if err != nil {
			return Page{}, err
		}
		filter.Status = status
	}
	page := max(req.Page, 1)
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	total, err := u.Fights.CountAll(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	items, err := u.Fights.List(ctx, filter, page, limit)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Fights: items,
		Total:  total,
		Page:   page,
		Limit:  limit,
		Pages:  int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (u UseCase) Participants(ctx context.Context, fightID string) (Participants, error) {
	f, err := u.Fights.Get(ctx, fightID)
	if err != nil {
		return Participants{}, err
	}
	return Participants{FightID: f.ID, Challenger: f.Challenger, Opponent: f.Opponent}, nil
}
