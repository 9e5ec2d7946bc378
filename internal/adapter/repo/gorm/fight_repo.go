package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dragonden/internal/adapter/repo/gorm/model"
	"dragonden/internal/app/ports"
	"dragonden/internal/domain/fight"
)

type FightRepo struct {
	db *gorm.DB
}

func NewFightRepo(db *gorm.DB) FightRepo {
	return FightRepo{db: db}
}

func (r FightRepo) Get(ctx context.Context, id string) (fight.Fight, error) {
	var m model.Fight
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fight.Fight{}, ports.ErrNotFound
		}
		return fight.Fight{}, err
	}
	return fightFromModel(m), nil
}

func (r FightRepo) SaveWithVersion(ctx context.Context, f fight.Fight, expectedVersion int64) error {
	db := conn(ctx, r.db)
	m := fightToModel(f)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrDuplicate
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.Fight{}).
		Where("id = ? AND version = ?", f.ID, expectedVersion).
		Updates(map[string]any{
			"location":         m.Location,
			"notes":            m.Notes,
			"rounds":           m.Rounds,
			"status":           m.Status,
			"winner_dragon_id": m.WinnerDragonID,
			"loser_dragon_id":  m.LoserDragonID,
			"is_draw":          m.IsDraw,
			"winner_score":     m.WinnerScore,
			"loser_score":      m.LoserScore,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrVersionConflict
	}
	return nil
}

func (r FightRepo) List(ctx context.Context, filter ports.FightFilter, page, limit int) ([]fight.Fight, error) {
	q := r.filtered(ctx, filter).Order("fight_date DESC").Order("id DESC")
	if limit > 0 {
		page = max(page, 1)
		q = q.Offset((page - 1) * limit).Limit(limit)
	}
	var rows []model.Fight
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]fight.Fight, 0, len(rows))
	for _, m := range rows {
		out = append(out, fightFromModel(m))
	}
	return out, nil
}

func (r FightRepo) CountAll(ctx context.Context, filter ports.FightFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r FightRepo) filtered(ctx context.Context, filter ports.FightFilter) *gorm.DB {
	q := conn(ctx, r.db).Model(&model.Fight{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.DragonID != "" {
		q = q.Where("(challenger_dragon_id = ? OR opponent_dragon_id = ?)", filter.DragonID, filter.DragonID)
	}
	if filter.RiderID != "" {
		q = q.Where("(challenger_rider_id = ? OR opponent_rider_id = ?)", filter.RiderID, filter.RiderID)
	}
	return q
}

func fightToModel(f fight.Fight) model.Fight {
	m := model.Fight{
		ID:                 f.ID,
		ChallengerDragonID: f.Challenger.DragonID,
		ChallengerRiderID:  f.Challenger.RiderID,
		OpponentDragonID:   f.Opponent.DragonID,
		OpponentRiderID:    f.Opponent.RiderID,
		FightDate:          f.FightDate,
		Location:           f.Details.Location,
		Notes:              f.Details.Notes,
		Rounds:             int32(f.Details.Rounds),
		Status:             string(f.Status),
		Version:            f.Version,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
	if res := f.Result; res != nil {
		m.WinnerDragonID = nullable(res.WinnerDragonID)
		m.LoserDragonID = nullable(res.LoserDragonID)
		m.IsDraw = res.IsDraw
		m.WinnerScore = int32(res.WinnerScore)
		m.LoserScore = int32(res.LoserScore)
	}
	return m
}

// fightFromModel attaches a Result only to completed fights.
func fightFromModel(m model.Fight) fight.Fight {
	f := fight.Fight{
		ID:         m.ID,
		Challenger: fight.Side{DragonID: m.ChallengerDragonID, RiderID: m.ChallengerRiderID},
		Opponent:   fight.Side{DragonID: m.OpponentDragonID, RiderID: m.OpponentRiderID},
		FightDate:  m.FightDate.UTC(),
		Details: fight.Details{
			Location: m.Location,
			Notes:    m.Notes,
			Rounds:   int(m.Rounds),
		},
		Status:    fight.Status(m.Status),
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if f.Status == fight.StatusCompleted {
		f.Result = &fight.Result{
			WinnerDragonID: deref(m.WinnerDragonID),
			LoserDragonID:  deref(m.LoserDragonID),
			IsDraw:         m.IsDraw,
			WinnerScore:    int(m.WinnerScore),
			LoserScore:     int(m.LoserScore),
		}
	}
	return f
}
