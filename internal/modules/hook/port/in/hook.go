package in

import (
	"context"

	"tempo/internal/modules/hook/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.HookInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	ListCommands(ctx context.Context, hookName string) ([]dto.CommandInfo, error)
	Run(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error)
	// EmitSessionSaved notifies every enabled hook with the session_saved
	// capability. Individual hook failures are reported per-hook, not as an
	// overall error.
	EmitSessionSaved(ctx context.Context, event dto.SessionSavedEvent) ([]dto.DispatchResult, error)
}
