package usecase

import (
	"context"

	"tempo/internal/modules/hook/dto"
	hookin "tempo/internal/modules/hook/port/in"
	"tempo/internal/modules/hook/service"
)

type Interactor struct {
	svc *service.HookService
}

func NewInteractor(svc *service.HookService) hookin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.HookInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) ListCommands(ctx context.Context, hookName string) ([]dto.CommandInfo, error) {
	return i.svc.ListCommands(ctx, hookName)
}

func (i *Interactor) Run(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error) {
	return i.svc.Run(ctx, input)
}

func (i *Interactor) EmitSessionSaved(ctx context.Context, event dto.SessionSavedEvent) ([]dto.DispatchResult, error) {
	return i.svc.EmitSessionSaved(ctx, event)
}
