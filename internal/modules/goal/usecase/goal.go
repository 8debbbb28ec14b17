package usecase

import (
	"context"

	"tempo/internal/modules/goal/domain"
	"tempo/internal/modules/goal/dto"
	goalin "tempo/internal/modules/goal/port/in"
	"tempo/internal/modules/goal/service"
)

type Interactor struct {
	svc *service.GoalService
}

func NewInteractor(svc *service.GoalService) goalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.GoalOutput, error) {
	goal, err := i.svc.Add(ctx, input.Name, input.TargetSeconds)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toOutput(goal), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.GoalOutput, error) {
	goals, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalOutput, 0, len(goals))
	for _, goal := range goals {
		out = append(out, toOutput(goal))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.GoalOutput, error) {
	goal, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toOutput(goal), nil
}

func (i *Interactor) ApplyProgress(ctx context.Context, input dto.ApplyProgressInput) (dto.GoalOutput, error) {
	goal, err := i.svc.ApplyProgress(ctx, input.GoalID, input.DeltaSeconds)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toOutput(goal), nil
}

func (i *Interactor) Recompute(ctx context.Context, id string, totalSeconds int64) (dto.GoalOutput, error) {
	goal, err := i.svc.Recompute(ctx, id, totalSeconds)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return toOutput(goal), nil
}

func toOutput(goal domain.Goal) dto.GoalOutput {
	return dto.GoalOutput{
		ID:              goal.ID,
		Name:            goal.Name,
		TargetSeconds:   goal.TargetSeconds,
		ProgressSeconds: goal.ProgressSeconds,
		PercentComplete: goal.PercentComplete(),
		CreatedAt:       goal.CreatedAt,
	}
}
