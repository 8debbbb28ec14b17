package domain

import (
	"fmt"
	"time"
)

// Activity is something the user tracks time against.
type Activity struct {
	ID        string
	Name      string
	GoalID    string
	CreatedAt time.Time
	Archived  bool
}

func (a Activity) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("activity name is required")
	}
	return nil
}
