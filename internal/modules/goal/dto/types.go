package dto

import "time"

type AddInput struct {
	Name          string
	TargetSeconds int64
}

type GoalOutput struct {
	ID              string
	Name            string
	TargetSeconds   int64
	ProgressSeconds int64
	PercentComplete float64
	CreatedAt       time.Time
}

type ApplyProgressInput struct {
	GoalID       string
	DeltaSeconds int64
}
