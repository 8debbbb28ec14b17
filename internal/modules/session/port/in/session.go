package in

import (
	"context"

	"tempo/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause(ctx context.Context) (dto.StatusOutput, error)
	Resume(ctx context.Context) (dto.StatusOutput, error)
	End(ctx context.Context) (dto.StatusOutput, error)
	Save(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Recover(ctx context.Context) (dto.RecoverOutput, error)
	ListRecent(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	ReportDaily(ctx context.Context, days int) ([]dto.DailyTotalOutput, error)
	TotalByGoal(ctx context.Context, goalID string) (int64, error)
}
