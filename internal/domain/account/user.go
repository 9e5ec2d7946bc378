// Package account holds the User aggregate and the closed set of user roles.
package account

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"dragonden/internal/errs"
)

type UserType int

const (
	Rider UserType = iota + 1
	Keeper
	Admin
)

// ParseUserType maps the wire names ("Dragon Rider", "Dragon Keeper", "admin") in any casing.
func ParseUserType(raw string) (UserType, error) {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "dragon rider":
		return Rider, nil
	case "dragon keeper":
		return Keeper, nil
	case "admin":
		return Admin, nil
	default:
		return 0, fmt.Errorf("%w: unknown user type %q", errs.ErrInvalidArgument, raw)
	}
}

func (t UserType) String() string {
	switch t {
	case Rider:
		return "Dragon Rider"
	case Keeper:
		return "Dragon Keeper"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

func (t UserType) MarshalText() ([]byte, error) {
	if t < Rider || t > Admin {
		return nil, fmt.Errorf("invalid user type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *UserType) UnmarshalText(b []byte) error {
	parsed, err := ParseUserType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Type            UserType  `json:"user_type"`
	PasswordHash    []byte    `json:"-"`
	PasswordSalt    []byte    `json:"-"`
	AcquiredDragons []string  `json:"acquired_dragons"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u User) Owns(dragonID string) bool {
	return slices.Contains(u.AcquiredDragons, dragonID)
}

// WithDragon returns a copy whose acquired set contains dragonID exactly once.
func (u User) WithDragon(dragonID string) User {
	out := slices.Clone(u.AcquiredDragons)
	if !slices.Contains(out, dragonID) {
		out = append(out, dragonID)
	}
	u.AcquiredDragons = out
	return u
}

func (u User) WithoutDragon(dragonID string) User {
	u.AcquiredDragons = slices.DeleteFunc(slices.Clone(u.AcquiredDragons), func(id string) bool {
		return id == dragonID
	})
	return u
}

// Capability is an action gated by role.
type Capability int

const (
	CapRide Capability = iota + 1
	CapTend
	CapManageDragons
	CapDeleteDragons
	CapModerate
)

func (t UserType) Can(c Capability) bool {
	switch t {
	case Rider:
		return c == CapRide
	case Keeper:
		return c == CapTend || c == CapManageDragons
	case Admin:
		return c == CapManageDragons || c == CapDeleteDragons || c == CapModerate
	default:
		return false
	}
}
