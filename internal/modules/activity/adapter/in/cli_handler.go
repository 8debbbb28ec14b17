package in

import (
	"context"

	activitydto "tempo/internal/modules/activity/dto"
	activityin "tempo/internal/modules/activity/port/in"
)

type CLIHandler struct {
	usecase activityin.Usecase
}

func NewCLIHandler(usecase activityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, name, goalID string) (activitydto.ActivityOutput, error) {
	return h.usecase.Add(ctx, activitydto.AddInput{Name: name, GoalID: goalID})
}

func (h CLIHandler) List(ctx context.Context, includeArchived bool) ([]activitydto.ActivityOutput, error) {
	return h.usecase.List(ctx, includeArchived)
}

func (h CLIHandler) Get(ctx context.Context, id string) (activitydto.ActivityOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Archive(ctx context.Context, id string) error {
	return h.usecase.Archive(ctx, id)
}
