package dragon

import (
	"fmt"
	"strings"
	"time"

	"dragonden/internal/errs"
)

type HungerLevel string

const (
	HungerSatiated HungerLevel = "Satiated"
	HungerContent  HungerLevel = "Content"
	HungerHungry   HungerLevel = "Hungry"
	HungerStarving HungerLevel = "Starving"
	HungerRavenous HungerLevel = "Ravenous"
)

const (
	preferredFoodBoost = 10
	otherFoodBoost     = 5
)

func HungerLevelFor(lastFed, now time.Time) HungerLevel {
	hours := now.Sub(lastFed).Hours()
	switch {
	case hours < 6:
		return HungerSatiated
	case hours < 12:
		return HungerContent
	case hours < 24:
		return HungerHungry
	case hours < 48:
		return HungerStarving
	default:
		return HungerRavenous
	}
}

type FeedResult struct {
	Food        string `json:"food"`
	HealthBoost int    `json:"health_boost"`
	IsPreferred bool   `json:"is_preferred"`
}

// Feed heals by 10 for the preferred food and by 5 otherwise. An empty food is the preferred one.
func (d Dragon) Feed(food string, now time.Time) (Dragon, FeedResult) {
	food = strings.TrimSpace(food)
	if food == "" {
		food = d.Feeding.PreferredFood
	}
	res := FeedResult{Food: food, HealthBoost: otherFoodBoost}
	if strings.EqualFold(food, d.Feeding.PreferredFood) {
		res.HealthBoost = preferredFoodBoost
		res.IsPreferred = true
	}

	d = d.withHealth(min(d.Health.CurrentHealth+res.HealthBoost, d.Health.MaxHealth), now)
	d.Feeding.LastFed = now
	d.Feeding.FeedingCount++
	d.Feeding.HungerLevel = HungerSatiated
	return d, res
}

func (d Dragon) SetPreferredFood(food string, now time.Time) (Dragon, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		return Dragon{}, fmt.Errorf("%w: preferred food must not be empty", errs.ErrInvalidArgument)
	}
	d.Feeding.PreferredFood = food
	d.UpdatedAt = now
	return d, nil
}
