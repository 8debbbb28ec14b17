package in

import (
	"context"

	"tempo/internal/modules/goal/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.GoalOutput, error)
	List(ctx context.Context) ([]dto.GoalOutput, error)
	Get(ctx context.Context, id string) (dto.GoalOutput, error)
	ApplyProgress(ctx context.Context, input dto.ApplyProgressInput) (dto.GoalOutput, error)
	// Recompute overwrites a goal's progress with a total derived from saved
	// session history, correcting drift from missed best-effort updates.
	Recompute(ctx context.Context, id string, totalSeconds int64) (dto.GoalOutput, error)
}
