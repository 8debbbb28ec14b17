package in

import (
	"context"

	"tempo/internal/modules/activity/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.ActivityOutput, error)
	List(ctx context.Context, includeArchived bool) ([]dto.ActivityOutput, error)
	Get(ctx context.Context, id string) (dto.ActivityOutput, error)
	Archive(ctx context.Context, id string) error
}
