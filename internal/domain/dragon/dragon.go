// Package dragon models a dragon's health, hunger and fight record as value snapshots.
package dragon

import (
	"fmt"
	"strings"
	"time"

	"dragonden/internal/errs"
)

const (
	DefaultImage         = "https://via.placeholder.com/300x200?text=Dragon"
	DefaultPreferredFood = "Meat"
)

type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
	SizeHuge   Size = "Huge"
)

// ParseSize accepts any casing of the four known sizes.
func ParseSize(raw string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	case "huge":
		return SizeHuge, nil
	default:
		return "", fmt.Errorf("%w: unknown dragon size %q", errs.ErrInvalidArgument, raw)
	}
}

type Health struct {
	CurrentHealth    int          `json:"current_health"`
	MaxHealth        int          `json:"max_health"`
	LastHealthUpdate time.Time    `json:"last_health_update"`
	HealthStatus     HealthStatus `json:"health_status"`
}

type Feeding struct {
	LastFed       time.Time   `json:"last_fed"`
	HungerLevel   HungerLevel `json:"hunger_level"`
	FeedingCount  int         `json:"feeding_count"`
	PreferredFood string      `json:"preferred_food"`
}

type Fighting struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func (f Fighting) Total() int {
	return f.Wins + f.Losses + f.Draws
}

type Dragon struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        Size      `json:"size"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Health      Health    `json:"health"`
	Feeding     Feeding   `json:"feeding"`
	Fighting    Fighting  `json:"fighting"`
	RiderID     string    `json:"rider_id,omitempty"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Attributes struct {
	Name          string
	Size          Size
	Age           int
	Description   string
	Image         string
	PreferredFood string
}

// New builds a freshly hatched record: full health derived from size and age, just fed, no rider.
func New(id string, attrs Attributes, now time.Time) (Dragon, error) {
	attrs.Name = strings.TrimSpace(attrs.Name)
	attrs.Description = strings.TrimSpace(attrs.Description)
	if id == "" || attrs.Name == "" || attrs.Description == "" {
		return Dragon{}, fmt.Errorf("%w: name and description are required", errs.ErrInvalidArgument)
	}
	if attrs.Age < 0 {
		return Dragon{}, fmt.Errorf("%w: age must not be negative", errs.ErrInvalidArgument)
	}
	if _, err := ParseSize(string(attrs.Size)); err != nil {
		return Dragon{}, err
	}
	image := strings.TrimSpace(attrs.Image)
	if image == "" {
		image = DefaultImage
	}
	food := strings.TrimSpace(attrs.PreferredFood)
	if food == "" {
		food = DefaultPreferredFood
	}

	maxHealth := ComputeBaseHealth(attrs.Size, attrs.Age)
	return Dragon{
		ID:          id,
		Name:        attrs.Name,
		Size:        attrs.Size,
		Age:         attrs.Age,
		Description: attrs.Description,
		Image:       image,
		Health: Health{
			CurrentHealth:    maxHealth,
			MaxHealth:        maxHealth,
			LastHealthUpdate: now,
			HealthStatus:     StatusFor(maxHealth, maxHealth),
		},
		Feeding: Feeding{
			LastFed:       now,
			HungerLevel:   HungerSatiated,
			PreferredFood: food,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (d Dragon) HasRider() bool {
	return d.RiderID != ""
}

// Project refreshes every read-time derived field.
func (d Dragon) Project(now time.Time) Dragon {
	d.Feeding.HungerLevel = HungerLevelFor(d.Feeding.LastFed, now)
	return d
}

type Patch struct {
	Name        *string
	Description *string
	Image       *string
	Age         *int
}

// ApplyPatch edits descriptive attributes only. Size and max health are fixed at creation.
func (d Dragon) ApplyPatch(p Patch, now time.Time) (Dragon, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return Dragon{}, fmt.Errorf("%w: name must not be empty", errs.ErrInvalidArgument)
		}
		d.Name = name
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if desc == "" {
			return Dragon{}, fmt.Errorf("%w: description must not be empty", errs.ErrInvalidArgument)
		}
		d.Description = desc
	}
	if p.Image != nil {
		d.Image = strings.TrimSpace(*p.Image)
		if d.Image == "" {
			d.Image = DefaultImage
		}
	}
	if p.Age != nil {
		if *p.Age < 0 {
			return Dragon{}, fmt.Errorf("%w: age must not be negative", errs.ErrInvalidArgument)
		}
		d.Age = *p.Age
	}
	d.UpdatedAt = now
	return d, nil
}
