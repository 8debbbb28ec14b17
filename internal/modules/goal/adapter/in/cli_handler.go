package in

import (
	"context"

	goaldto "tempo/internal/modules/goal/dto"
	goalin "tempo/internal/modules/goal/port/in"
)

type CLIHandler struct {
	usecase goalin.Usecase
}

func NewCLIHandler(usecase goalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, name string, targetSeconds int64) (goaldto.GoalOutput, error) {
	return h.usecase.Add(ctx, goaldto.AddInput{Name: name, TargetSeconds: targetSeconds})
}

func (h CLIHandler) List(ctx context.Context) ([]goaldto.GoalOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (goaldto.GoalOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Recompute(ctx context.Context, id string, totalSeconds int64) (goaldto.GoalOutput, error) {
	return h.usecase.Recompute(ctx, id, totalSeconds)
}
