// Package fight implements the pending -> completed|cancelled fight lifecycle and the
// read-side statistics derived from it.
package fight

import (
	"fmt"
	"strings"
	"time"

	"dragonden/internal/domain/dragon"
	"dragonden/internal/errs"
)

const (
	DefaultLocation = "Dragon Arena"
	DefaultNotes    = "Standard dragon fight"
	DefaultRounds   = 1
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown fight status %q", errs.ErrInvalidArgument, raw)
	}
}

type Side struct {
	DragonID string `json:"dragon_id"`
	RiderID  string `json:"rider_id"`
}

type Details struct {
	Location string `json:"location"`
	Notes    string `json:"notes"`
	Rounds   int    `json:"rounds"`
}

type Result struct {
	WinnerDragonID string `json:"winner_dragon_id,omitempty"`
	LoserDragonID  string `json:"loser_dragon_id,omitempty"`
	IsDraw         bool   `json:"is_draw"`
	WinnerScore    int    `json:"winner_score"`
	LoserScore     int    `json:"loser_score"`
}

type Fight struct {
	ID         string    `json:"id"`
	Challenger Side      `json:"challenger"`
	Opponent   Side      `json:"opponent"`
	FightDate  time.Time `json:"fight_date"`
	Details    Details   `json:"fight_details"`
	Status     Status    `json:"status"`
	Result     *Result   `json:"result,omitempty"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (f Fight) Involves(dragonID string) bool {
	return dragonID != "" && (f.Challenger.DragonID == dragonID || f.Opponent.DragonID == dragonID)
}

func (f Fight) HasRider(riderID string) bool {
	return riderID != "" && (f.Challenger.RiderID == riderID || f.Opponent.RiderID == riderID)
}

type InitiateInput struct {
	Location string
	Notes    string
	Rounds   int
}

// Initiate opens a pending fight. Checks run in a fixed order: rider ownership, opponent
// rider, then distinct dragons.
func Initiate(id string, challenger, opponent dragon.Dragon, riderID string, in InitiateInput, now time.Time) (Fight, error) {
	if riderID == "" || challenger.RiderID != riderID {
		return Fight{}, fmt.Errorf("%w: only the rider of dragon %s can start its fights", errs.ErrForbidden, challenger.ID)
	}
	if !opponent.HasRider() {
		return Fight{}, fmt.Errorf("%w: cannot challenge dragon %s without a rider", errs.ErrInvalidState, opponent.ID)
	}
	if challenger.ID == opponent.ID {
		return Fight{}, fmt.Errorf("%w: a dragon cannot fight itself", errs.ErrInvalidArgument)
	}
	if in.Rounds < 0 {
		return Fight{}, fmt.Errorf("%w: rounds must be at least 1", errs.ErrInvalidArgument)
	}

	details := Details{
		Location: strings.TrimSpace(in.Location),
		Notes:    strings.TrimSpace(in.Notes),
		Rounds:   in.Rounds,
	}
	if details.Location == "" {
		details.Location = DefaultLocation
	}
	if details.Notes == "" {
		details.Notes = DefaultNotes
	}
	if details.Rounds == 0 {
		details.Rounds = DefaultRounds
	}

	return Fight{
		ID:         id,
		Challenger: Side{DragonID: challenger.ID, RiderID: riderID},
		Opponent:   Side{DragonID: opponent.ID, RiderID: opponent.RiderID},
		FightDate:  now,
		Details:    details,
		Status:     StatusPending,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

type CompleteInput struct {
	WinnerDragonID  string
	IsDraw          bool
	ChallengerScore *int
	OpponentScore   *int
	Rounds          int
}

// Outcome is the stat delta a completed fight owes its two dragons.
type Outcome struct {
	IsDraw         bool
	WinnerDragonID string
	LoserDragonID  string
}

// Apply adds this outcome to d's counters. Dragons outside the fight are returned unchanged.
func (o Outcome) Apply(d dragon.Dragon, now time.Time) dragon.Dragon {
	switch {
	case o.IsDraw && (d.ID == o.WinnerDragonID || d.ID == o.LoserDragonID):
		d.Fighting.Draws++
	case !o.IsDraw && d.ID == o.WinnerDragonID:
		d.Fighting.Wins++
	case !o.IsDraw && d.ID == o.LoserDragonID:
		d.Fighting.Losses++
	default:
		return d
	}
	d.UpdatedAt = now
	return d
}

// Complete records the result of a pending fight. requestingRiderID may be empty when the
// caller is not acting as a rider.
func Complete(f Fight, in CompleteInput, requestingRiderID string, now time.Time) (Fight, Outcome, error) {
	if f.Status != StatusPending {
		return Fight{}, Outcome{}, fmt.Errorf("%w: fight %s is already %s", errs.ErrInvalidState, f.ID, f.Status)
	}
	if requestingRiderID != "" && !f.HasRider(requestingRiderID) {
		return Fight{}, Outcome{}, fmt.Errorf("%w: only riders involved in the fight can complete it", errs.ErrForbidden)
	}

	winner := strings.TrimSpace(in.WinnerDragonID)
	if in.IsDraw == (winner != "") {
		return Fight{}, Outcome{}, fmt.Errorf("%w: exactly one of winner or draw must be given", errs.ErrInvalidArgument)
	}
	if in.Rounds < 0 {
		return Fight{}, Outcome{}, fmt.Errorf("%w: rounds must be at least 1", errs.ErrInvalidArgument)
	}

	res := Result{IsDraw: in.IsDraw}
	out := Outcome{IsDraw: in.IsDraw}
	if in.IsDraw {
		// Draw outcomes still name both sides so Apply can find them.
		out.WinnerDragonID = f.Challenger.DragonID
		out.LoserDragonID = f.Opponent.DragonID
	} else {
		if !f.Involves(winner) {
			return Fight{}, Outcome{}, fmt.Errorf("%w: winner %s is not in fight %s", errs.ErrInvalidArgument, winner, f.ID)
		}
		loser := f.Opponent.DragonID
		if winner == f.Opponent.DragonID {
			loser = f.Challenger.DragonID
		}
		res.WinnerDragonID, res.LoserDragonID = winner, loser
		out.WinnerDragonID, out.LoserDragonID = winner, loser
	}
	if in.ChallengerScore != nil && in.OpponentScore != nil {
		res.WinnerScore = max(*in.ChallengerScore, *in.OpponentScore)
		res.LoserScore = min(*in.ChallengerScore, *in.OpponentScore)
	}
	if in.Rounds > 0 {
		f.Details.Rounds = in.Rounds
	}

	f.Status = StatusCompleted
	f.Result = &res
	f.UpdatedAt = now
	return f, out, nil
}

func Cancel(f Fight, requestingRiderID string, now time.Time) (Fight, error) {
	if f.Status != StatusPending {
		return Fight{}, fmt.Errorf("%w: cannot cancel a fight that is already %s", errs.ErrInvalidState, f.Status)
	}
	if requestingRiderID != "" && !f.HasRider(requestingRiderID) {
		return Fight{}, fmt.Errorf("%w: only riders involved in the fight can cancel it", errs.ErrForbidden)
	}
	f.Status = StatusCancelled
	f.UpdatedAt = now
	return f, nil
}
