package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	activityinadapter "tempo/internal/modules/activity/adapter/in"
	activityoutadapter "tempo/internal/modules/activity/adapter/out"
	activityin "tempo/internal/modules/activity/port/in"
	activityservice "tempo/internal/modules/activity/service"
	activityusecase "tempo/internal/modules/activity/usecase"
	goalinadapter "tempo/internal/modules/goal/adapter/in"
	goaloutadapter "tempo/internal/modules/goal/adapter/out"
	goalin "tempo/internal/modules/goal/port/in"
	goalservice "tempo/internal/modules/goal/service"
	goalusecase "tempo/internal/modules/goal/usecase"
	hookinadapter "tempo/internal/modules/hook/adapter/in"
	hookoutadapter "tempo/internal/modules/hook/adapter/out"
	hookin "tempo/internal/modules/hook/port/in"
	hookservice "tempo/internal/modules/hook/service"
	hookusecase "tempo/internal/modules/hook/usecase"
	sessioninadapter "tempo/internal/modules/session/adapter/in"
	sessionoutadapter "tempo/internal/modules/session/adapter/out"
	sessiondto "tempo/internal/modules/session/dto"
	sessionin "tempo/internal/modules/session/port/in"
	sessionservice "tempo/internal/modules/session/service"
	sessionusecase "tempo/internal/modules/session/usecase"
	"tempo/internal/platform/clock"
	"tempo/internal/platform/config"
	"tempo/internal/platform/id"
	"tempo/internal/platform/tx"
	uiapp "tempo/internal/ui/app"
)

type App struct {
	Cfg    config.Config
	Engine *sessionservice.Engine

	SessionUC  sessionin.Usecase
	ActivityUC activityin.Usecase
	GoalUC     goalin.Usecase
	HookUC     hookin.Usecase

	SessionCLI  sessioninadapter.CLIHandler
	ActivityCLI activityinadapter.CLIHandler
	GoalCLI     goalinadapter.CLIHandler
	HookCLI     hookinadapter.CLIHandler

	// Recovered describes the session rebuilt at startup, if any.
	Recovered sessiondto.RecoverOutput
}

// New wires every module and immediately runs crash recovery so each process
// starts from the same session state the previous one left behind.
func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}
	log := hclog.New(&hclog.LoggerOptions{Name: "tempo", Level: hclog.Warn})

	activityStore, err := activityoutadapter.NewSQLiteActivityStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new activity store: %w", err)
	}
	activityUC := activityusecase.NewInteractor(
		activityservice.NewActivityService(clk, activityStore))

	goalStore, err := goaloutadapter.NewSQLiteGoalStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new goal store: %w", err)
	}
	goalUC := goalusecase.NewInteractor(goalservice.NewGoalService(clk, ids, goalStore))

	hookUC := hookusecase.NewInteractor(hookservice.NewHookService(
		hookoutadapter.NewYAMLManifestStore(cfg.HooksDir),
		hookoutadapter.NewGRPCHost(),
	))

	recordStore, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath, ids)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	snapshotStore, err := sessionoutadapter.NewFileSnapshotStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("new snapshot store: %w", err)
	}
	engine := sessionservice.NewEngine(clk, log.Named("engine"), recordStore, snapshotStore, cfg.TickInterval)

	sessionUC := sessionusecase.NewInteractor(sessionusecase.Deps{
		Engine:     engine,
		Activities: activityUC,
		Records:    recordStore,
		Goals:      sessionoutadapter.NewGoalProgressAdapter(goalUC),
		Hooks:      sessionoutadapter.NewHookDispatchAdapter(hookUC, cfg.DataPath, log.Named("hooks")),
		Journal:    sessionoutadapter.NewJournalStore(cfg.JournalDir),
		Tx:         tx.NoopManager{},
		Clock:      clk,
		Location:   cfg.Location,
		Log:        log.Named("session"),
	})

	recovered, err := sessionUC.Recover(context.Background())
	if err != nil {
		log.Warn("session recovery failed", "error", err)
	}

	return &App{
		Cfg:         cfg,
		Engine:      engine,
		SessionUC:   sessionUC,
		ActivityUC:  activityUC,
		GoalUC:      goalUC,
		HookUC:      hookUC,
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ActivityCLI: activityinadapter.NewCLIHandler(activityUC),
		GoalCLI:     goalinadapter.NewCLIHandler(goalUC),
		HookCLI:     hookinadapter.NewCLIHandler(hookUC),
		Recovered:   recovered,
	}, nil
}

func RunTUI(app *App) error {
	defer app.Engine.Close()

	// Bridge engine ticks into the program. The send never blocks the ticker;
	// a dropped tick is repainted one interval later.
	ticks := make(chan int64, 1)
	app.Engine.Subscribe(func(seconds int64) {
		select {
		case ticks <- seconds:
		default:
		}
	})

	model := uiapp.NewModel(app.Cfg.DataPath, app.SessionUC, app.ActivityUC, app.GoalUC, app.HookUC, ticks)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
