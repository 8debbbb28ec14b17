package out

import (
	"context"

	goaldto "tempo/internal/modules/goal/dto"
	goalin "tempo/internal/modules/goal/port/in"
	sessionout "tempo/internal/modules/session/port/out"
)

// GoalProgressAdapter bridges saved session time into the goal module.
type GoalProgressAdapter struct {
	goals goalin.Usecase
}

func NewGoalProgressAdapter(goals goalin.Usecase) *GoalProgressAdapter {
	return &GoalProgressAdapter{goals: goals}
}

var _ sessionout.GoalProgress = (*GoalProgressAdapter)(nil)

func (a *GoalProgressAdapter) Apply(ctx context.Context, goalID string, deltaSeconds int64) error {
	_, err := a.goals.ApplyProgress(ctx, goaldto.ApplyProgressInput{GoalID: goalID, DeltaSeconds: deltaSeconds})
	return err
}
