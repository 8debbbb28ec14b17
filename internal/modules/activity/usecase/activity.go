package usecase

import (
	"context"

	"tempo/internal/modules/activity/domain"
	"tempo/internal/modules/activity/dto"
	activityin "tempo/internal/modules/activity/port/in"
	"tempo/internal/modules/activity/service"
)

type Interactor struct {
	svc *service.ActivityService
}

func NewInteractor(svc *service.ActivityService) activityin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.ActivityOutput, error) {
	activity, err := i.svc.Add(ctx, input.Name, input.GoalID)
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	return toOutput(activity), nil
}

func (i *Interactor) List(ctx context.Context, includeArchived bool) ([]dto.ActivityOutput, error) {
	activities, err := i.svc.List(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityOutput, 0, len(activities))
	for _, activity := range activities {
		out = append(out, toOutput(activity))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.ActivityOutput, error) {
	activity, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	return toOutput(activity), nil
}

func (i *Interactor) Archive(ctx context.Context, id string) error {
	return i.svc.Archive(ctx, id)
}

func toOutput(activity domain.Activity) dto.ActivityOutput {
	return dto.ActivityOutput{
		ID:        activity.ID,
		Name:      activity.Name,
		GoalID:    activity.GoalID,
		CreatedAt: activity.CreatedAt,
		Archived:  activity.Archived,
	}
}
