package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dragonden/internal/adapter/repo/gorm/model"
	"dragonden/internal/app/ports"
	"dragonden/internal/domain/dragon"
)

type DragonRepo struct {
	db *gorm.DB
}

func NewDragonRepo(db *gorm.DB) DragonRepo {
	return DragonRepo{db: db}
}

func (r DragonRepo) Get(ctx context.Context, id string) (dragon.Dragon, error) {
	var m model.Dragon
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dragon.Dragon{}, ports.ErrNotFound
		}
		return dragon.Dragon{}, err
	}
	return dragonFromModel(m), nil
}

func (r DragonRepo) SaveWithVersion(ctx context.Context, d dragon.Dragon, expectedVersion int64) error {
	db := conn(ctx, r.db)
	m := dragonToModel(d)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrDuplicate
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"name":               m.Name,
		"age":                m.Age,
		"description":        m.Description,
		"image":              m.Image,
		"current_health":     m.CurrentHealth,
		"max_health":         m.MaxHealth,
		"last_health_update": m.LastHealthUpdate,
		"health_status":      m.HealthStatus,
		"last_fed":           m.LastFed,
		"feeding_count":      m.FeedingCount,
		"preferred_food":     m.PreferredFood,
		"wins":               m.Wins,
		"losses":             m.Losses,
		"draws":              m.Draws,
		"rider_id":           m.RiderID,
		"version":            m.Version,
		"updated_at":         m.UpdatedAt,
	}
	res := db.Model(&model.Dragon{}).
		Where("id = ? AND version = ?", d.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrVersionConflict
	}
	return nil
}

func (r DragonRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	db := conn(ctx, r.db)
	res := db.Where("id = ? AND version = ?", id, expectedVersion).Delete(&model.Dragon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.Model(&model.Dragon{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrVersionConflict
}

func (r DragonRepo) List(ctx context.Context, filter ports.DragonFilter) ([]dragon.Dragon, error) {
	q := conn(ctx, r.db).Model(&model.Dragon{})
	if filter.RiderID != "" {
		q = q.Where("rider_id = ?", filter.RiderID)
	}
	if filter.Size != "" {
		q = q.Where("size = ?", string(filter.Size))
	}
	if filter.Unclaimed {
		q = q.Where("rider_id IS NULL")
	}
	var rows []model.Dragon
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dragon.Dragon, 0, len(rows))
	for _, m := range rows {
		out = append(out, dragonFromModel(m))
	}
	return out, nil
}

func (r DragonRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&model.Dragon{}).Count(&n).Error
	return n, err
}

func dragonToModel(d dragon.Dragon) model.Dragon {
	return model.Dragon{
		ID:               d.ID,
		Name:             d.Name,
		Size:             string(d.Size),
		Age:              int32(d.Age),
		Description:      d.Description,
		Image:            d.Image,
		CurrentHealth:    int32(d.Health.CurrentHealth),
		MaxHealth:        int32(d.Health.MaxHealth),
		LastHealthUpdate: d.Health.LastHealthUpdate,
		HealthStatus:     string(d.Health.HealthStatus),
		LastFed:          d.Feeding.LastFed,
		FeedingCount:     int32(d.Feeding.FeedingCount),
		PreferredFood:    d.Feeding.PreferredFood,
		Wins:             int32(d.Fighting.Wins),
		Losses:           int32(d.Fighting.Losses),
		Draws:            int32(d.Fighting.Draws),
		RiderID:          nullable(d.RiderID),
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// dragonFromModel leaves HungerLevel unset; it is derived on read by Dragon.Project.
func dragonFromModel(m model.Dragon) dragon.Dragon {
	return dragon.Dragon{
		ID:          m.ID,
		Name:        m.Name,
		Size:        dragon.Size(m.Size),
		Age:         int(m.Age),
		Description: m.Description,
		Image:       m.Image,
		Health: dragon.Health{
			CurrentHealth:    int(m.CurrentHealth),
			MaxHealth:        int(m.MaxHealth),
			LastHealthUpdate: m.LastHealthUpdate.UTC(),
			HealthStatus:     dragon.HealthStatus(m.HealthStatus),
		},
		Feeding: dragon.Feeding{
			LastFed:       m.LastFed.UTC(),
			FeedingCount:  int(m.FeedingCount),
			PreferredFood: m.PreferredFood,
		},
		Fighting: dragon.Fighting{
			Wins:   int(m.Wins),
			Losses: int(m.Losses),
			Draws:  int(m.Draws),
		},
		RiderID:   deref(m.RiderID),
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
