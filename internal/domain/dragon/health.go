package dragon

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dragonden/internal/errs"
)

const DefaultHealAmount = 10

type HealthStatus string

const (
	HealthExcellent HealthStatus = "Excellent"
	HealthGood      HealthStatus = "Good"
	HealthFair      HealthStatus = "Fair"
	HealthPoor      HealthStatus = "Poor"
	HealthCritical  HealthStatus = "Critical"
)

func ParseHealthStatus(raw string) (HealthStatus, error) {
	for _, s := range []HealthStatus{HealthExcellent, HealthGood, HealthFair, HealthPoor, HealthCritical} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown health status %q", errs.ErrInvalidArgument, raw)
}

func ComputeBaseHealth(size Size, age int) int {
	base := 100.0
	switch size {
	case SizeSmall:
		base = 80
	case SizeMedium:
		base = 100
	case SizeLarge:
		base = 150
	case SizeHuge:
		base = 200
	}

	modifier := 1.0
	switch {
	case age < 5:
		modifier = 0.7 + float64(age)*0.06
	case age > 50:
		modifier = math.Max(0.5, 1.0-float64(age-50)*0.01)
	}
	return int(math.Round(base * modifier))
}

func StatusFor(current, max int) HealthStatus {
	if max <= 0 {
		return HealthCritical
	}
	pct := float64(current) / float64(max) * 100
	switch {
	case pct >= 90:
		return HealthExcellent
	case pct >= 70:
		return HealthGood
	case pct >= 50:
		return HealthFair
	case pct >= 25:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// Heal adds amount up to max health. A zero amount means DefaultHealAmount.
func (d Dragon) Heal(amount int, now time.Time) (Dragon, error) {
	if amount == 0 {
		amount = DefaultHealAmount
	}
	if amount < 0 {
		return Dragon{}, fmt.Errorf("%w: heal amount must be positive", errs.ErrInvalidArgument)
	}
	return d.withHealth(min(d.Health.CurrentHealth+amount, d.Health.MaxHealth), now), nil
}

func (d Dragon) Damage(amount int, now time.Time) (Dragon, error) {
	if amount <= 0 {
		return Dragon{}, fmt.Errorf("%w: damage amount must be positive", errs.ErrInvalidArgument)
	}
	return d.withHealth(max(d.Health.CurrentHealth-amount, 0), now), nil
}

// SetHealth is the keeper override: provided values are stored verbatim, without clamping
// and without recomputing the status.
func (d Dragon) SetHealth(currentHealth *int, status *HealthStatus, now time.Time) Dragon {
	if currentHealth != nil {
		d.Health.CurrentHealth = *currentHealth
	}
	if status != nil {
		d.Health.HealthStatus = *status
	}
	d.Health.LastHealthUpdate = now
	d.UpdatedAt = now
	return d
}

func (d Dragon) withHealth(current int, now time.Time) Dragon {
	d.Health.CurrentHealth = current
	d.Health.HealthStatus = StatusFor(current, d.Health.MaxHealth)
	d.Health.LastHealthUpdate = now
	d.UpdatedAt = now
	return d
}
