package dto

import "time"

type AddInput struct {
	Name   string
	GoalID string
}

type ActivityOutput struct {
	ID        string
	Name      string
	GoalID    string
	CreatedAt time.Time
	Archived  bool
}
