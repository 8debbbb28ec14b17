package domain

import (
	"fmt"
	"time"
)

// Goal accumulates saved session time toward a target.
type Goal struct {
	ID              string
	Name            string
	TargetSeconds   int64
	ProgressSeconds int64
	CreatedAt       time.Time
}

func (g Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	if g.TargetSeconds < 0 {
		return fmt.Errorf("goal target must be non-negative")
	}
	return nil
}

// PercentComplete is clamped to 100 so an overshot goal still reads sane.
func (g Goal) PercentComplete() float64 {
	if g.TargetSeconds <= 0 {
		return 0
	}
	pct := float64(g.ProgressSeconds) / float64(g.TargetSeconds) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
