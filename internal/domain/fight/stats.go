package fight

import (
	"fmt"
	"math"

	"dragonden/internal/domain/dragon"
)

type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func RecordOf(d dragon.Dragon) Record {
	return Record{Wins: d.Fighting.Wins, Losses: d.Fighting.Losses, Draws: d.Fighting.Draws}
}

// Tally recomputes a dragon's record from the fight log. Only completed fights count.
func Tally(dragonID string, fights []Fight) Record {
	var r Record
	for _, f := range fights {
		if f.Status != StatusCompleted || f.Result == nil || !f.Involves(dragonID) {
			continue
		}
		switch {
		case f.Result.IsDraw:
			r.Draws++
		case f.Result.WinnerDragonID == dragonID:
			r.Wins++
		case f.Result.LoserDragonID == dragonID:
			r.Losses++
		}
	}
	return r
}

// LatestCompleted returns the most recent completed fight involving dragonID, or nil.
func LatestCompleted(dragonID string, fights []Fight) *Fight {
	var latest *Fight
	for i := range fights {
		f := fights[i]
		if f.Status != StatusCompleted || !f.Involves(dragonID) {
			continue
		}
		if latest == nil || f.FightDate.After(latest.FightDate) {
			latest = &f
		}
	}
	return latest
}

type Stats struct {
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	TotalFights int     `json:"total_fights"`
	WinRate     string  `json:"win_rate"`
	WinRatePct  float64 `json:"win_rate_pct"`
	LastFight   *Fight  `json:"last_fight"`
}

func StatsFor(d dragon.Dragon, lastFight *Fight) Stats {
	total := d.Fighting.Total()
	pct := WinRate(d.Fighting.Wins, total)
	return Stats{
		Wins:        d.Fighting.Wins,
		Losses:      d.Fighting.Losses,
		Draws:       d.Fighting.Draws,
		TotalFights: total,
		WinRate:     fmt.Sprintf("%.2f%%", pct),
		WinRatePct:  pct,
		LastFight:   lastFight,
	}
}

// WinRate is wins/total as a percentage rounded to two decimals, 0 when there were no fights.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*100*100) / 100
}
