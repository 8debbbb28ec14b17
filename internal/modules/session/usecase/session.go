package usecase

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	activityin "tempo/internal/modules/activity/port/in"
	"tempo/internal/modules/session/domain"
	"tempo/internal/modules/session/dto"
	sessionin "tempo/internal/modules/session/port/in"
	sessionout "tempo/internal/modules/session/port/out"
	"tempo/internal/modules/session/service"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/tx"
)

// Interactor orchestrates the engine with the surrounding adapters: activity
// lookup on start, and the best-effort side effects after a save.
type Interactor struct {
	engine     *service.Engine
	activities activityin.Usecase
	records    sessionout.RecordStore
	goals      sessionout.GoalProgress
	hooks      sessionout.SaveListener
	journal    sessionout.JournalStore
	txm        tx.Manager
	clock      clock.Clock
	loc        *time.Location
	log        hclog.Logger
}

type Deps struct {
	Engine     *service.Engine
	Activities activityin.Usecase
	Records    sessionout.RecordStore
	Goals      sessionout.GoalProgress
	Hooks      sessionout.SaveListener
	Journal    sessionout.JournalStore
	Tx         tx.Manager
	Clock      clock.Clock
	Location   *time.Location
	Log        hclog.Logger
}

func NewInteractor(deps Deps) sessionin.Usecase {
	if deps.Log == nil {
		deps.Log = hclog.NewNullLogger()
	}
	if deps.Tx == nil {
		deps.Tx = tx.NoopManager{}
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &Interactor{
		engine:     deps.Engine,
		activities: deps.Activities,
		records:    deps.Records,
		goals:      deps.Goals,
		hooks:      deps.Hooks,
		journal:    deps.Journal,
		txm:        deps.Tx,
		clock:      deps.Clock,
		loc:        deps.Location,
		log:        deps.Log,
	}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	if input.ActivityID == "" {
		return dto.StartOutput{}, fmt.Errorf("%w: activity id is required", apperrors.ErrInvalidInput)
	}
	activity, err := i.activities.Get(ctx, input.ActivityID)
	if err != nil {
		return dto.StartOutput{}, err
	}
	goalID := input.GoalID
	if goalID == "" {
		goalID = activity.GoalID
	}
	draft, started := i.engine.Start(ctx, domain.Draft{
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		GoalID:       goalID,
	})
	return dto.StartOutput{
		RecordID:      draft.RecordID,
		ActivityID:    draft.ActivityID,
		ActivityName:  draft.ActivityName,
		StartedAt:     draft.StartTime,
		AlreadyActive: !started,
	}, nil
}

func (i *Interactor) Pause(ctx context.Context) (dto.StatusOutput, error) {
	i.engine.Pause(ctx)
	return i.Status(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (dto.StatusOutput, error) {
	i.engine.Resume(ctx)
	return i.Status(ctx)
}

func (i *Interactor) End(ctx context.Context) (dto.StatusOutput, error) {
	i.engine.End(ctx)
	return i.Status(ctx)
}

// Save persists the ended session, then runs the best-effort side effects:
// goal progress, hook dispatch and the journal note. Only the persistence step
// can fail the save.
func (i *Interactor) Save(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error) {
	reflection := domain.Reflection{Mood: input.Mood, Notes: input.Notes}
	if input.Mood != 0 && !reflection.Valid() {
		return dto.SaveOutput{}, fmt.Errorf("%w: mood must be between %d and %d",
			apperrors.ErrInvalidInput, domain.MoodMin, domain.MoodMax)
	}

	var result service.SaveResult
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		var saveErr error
		result, saveErr = i.engine.Save(ctx, reflection, i.loc)
		return saveErr
	})
	if err != nil {
		return dto.SaveOutput{}, err
	}

	out := dto.SaveOutput{
		RecordID:        result.PrimaryRecordID,
		Segments:        len(result.Sessions),
		DurationSeconds: result.TotalSeconds,
		Duration:        domain.FormatElapsed(result.TotalSeconds),
		GoalID:          result.Draft.GoalID,
	}

	if result.Draft.GoalID != "" && i.goals != nil {
		if err := i.goals.Apply(ctx, result.Draft.GoalID, result.TotalSeconds); err != nil {
			i.log.Warn("goal progress update failed; session is saved",
				"goal_id", result.Draft.GoalID, "error", err)
		} else {
			out.GoalApplied = true
		}
	}

	if len(result.Sessions) > 0 {
		primary := result.Sessions[0]
		if i.hooks != nil {
			if err := i.hooks.SessionSaved(ctx, primary); err != nil {
				i.log.Warn("hook dispatch failed; session is saved", "error", err)
			}
		}
		if i.journal != nil {
			path, err := i.journal.Write(ctx, primary)
			if err != nil {
				i.log.Warn("journal note failed; session is saved", "error", err)
			} else {
				out.JournalPath = path
			}
		}
	}

	return out, nil
}

func (i *Interactor) Status(context.Context) (dto.StatusOutput, error) {
	draft, state, elapsed, ok := i.engine.Status()
	if !ok {
		return dto.StatusOutput{HasSession: false}, nil
	}
	return dto.StatusOutput{
		State:          string(state),
		RecordID:       draft.RecordID,
		ActivityID:     draft.ActivityID,
		ActivityName:   draft.ActivityName,
		GoalID:         draft.GoalID,
		StartedAt:      draft.StartTime,
		ElapsedSeconds: elapsed,
		Elapsed:        domain.FormatElapsed(elapsed),
		Active:         state == domain.StateActive,
		HasSession:     true,
	}, nil
}

func (i *Interactor) Recover(ctx context.Context) (dto.RecoverOutput, error) {
	recovered, err := i.engine.Recover(ctx)
	if err != nil {
		return dto.RecoverOutput{}, err
	}
	status, err := i.Status(ctx)
	if err != nil {
		return dto.RecoverOutput{}, err
	}
	return dto.RecoverOutput{Recovered: recovered, Status: status}, nil
}

func (i *Interactor) ListRecent(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	sessions, err := i.records.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.SessionOutput{
			RecordID:        session.ID,
			ActivityID:      session.ActivityID,
			ActivityName:    session.ActivityName,
			Date:            session.SessionDate,
			StartedAt:       session.StartTime,
			EndedAt:         session.EndTime,
			DurationSeconds: session.DurationSeconds,
			Duration:        domain.FormatElapsed(session.DurationSeconds),
			Notes:           session.Notes,
			Mood:            session.Mood,
		})
	}
	return out, nil
}

func (i *Interactor) ReportDaily(ctx context.Context, days int) ([]dto.DailyTotalOutput, error) {
	totals, err := i.records.DailyTotals(ctx, days, i.clock.Now().In(i.loc))
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyTotalOutput, 0, len(totals))
	for _, total := range totals {
		out = append(out, dto.DailyTotalOutput{
			Date:         total.Date,
			TotalSeconds: total.TotalSeconds,
			Total:        domain.FormatElapsed(total.TotalSeconds),
			Sessions:     total.Sessions,
		})
	}
	return out, nil
}

func (i *Interactor) TotalByGoal(ctx context.Context, goalID string) (int64, error) {
	return i.records.TotalByGoal(ctx, goalID)
}
