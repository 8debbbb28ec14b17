package in

import (
	"context"

	hookdto "tempo/internal/modules/hook/dto"
	hookin "tempo/internal/modules/hook/port/in"
)

type CLIHandler struct {
	usecase hookin.Usecase
}

func NewCLIHandler(usecase hookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]hookdto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]hookdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) ListCommands(ctx context.Context, hookName string) ([]hookdto.CommandInfo, error) {
	return h.usecase.ListCommands(ctx, hookName)
}

func (h CLIHandler) Run(ctx context.Context, input hookdto.ExecuteInput) (hookdto.ExecuteOutput, error) {
	return h.usecase.Run(ctx, input)
}
