package in

import (
	"context"

	sessiondto "tempo/internal/modules/session/dto"
	sessionin "tempo/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, activityID, goalID string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{ActivityID: activityID, GoalID: goalID})
}

func (h CLIHandler) Pause(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) End(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.End(ctx)
}

func (h CLIHandler) Save(ctx context.Context, mood int, notes string) (sessiondto.SaveOutput, error) {
	return h.usecase.Save(ctx, sessiondto.SaveInput{Mood: mood, Notes: notes})
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Recover(ctx context.Context) (sessiondto.RecoverOutput, error) {
	return h.usecase.Recover(ctx)
}

func (h CLIHandler) ListRecent(ctx context.Context, limit int) ([]sessiondto.SessionOutput, error) {
	return h.usecase.ListRecent(ctx, limit)
}

func (h CLIHandler) ReportDaily(ctx context.Context, days int) ([]sessiondto.DailyTotalOutput, error) {
	return h.usecase.ReportDaily(ctx, days)
}
