package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	hookdto "tempo/internal/modules/hook/dto"
	hookin "tempo/internal/modules/hook/port/in"
	"tempo/internal/modules/session/domain"
	sessionout "tempo/internal/modules/session/port/out"

	hclog "github.com/hashicorp/go-hclog"
)

// HookDispatchAdapter forwards saved sessions to the hook module as
// session_saved events.
type HookDispatchAdapter struct {
	hooks    hookin.Usecase
	dataPath string
	log      hclog.Logger
}

func NewHookDispatchAdapter(hooks hookin.Usecase, dataPath string, log hclog.Logger) *HookDispatchAdapter {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &HookDispatchAdapter{hooks: hooks, dataPath: dataPath, log: log}
}

var _ sessionout.SaveListener = (*HookDispatchAdapter)(nil)

func (a *HookDispatchAdapter) SessionSaved(ctx context.Context, session domain.CompletedSession) error {
	payload, err := json.Marshal(map[string]any{
		"id":               session.ID,
		"activity_id":      session.ActivityID,
		"activity_name":    session.ActivityName,
		"goal_id":          session.GoalID,
		"started_at":       session.StartTime.Format(time.RFC3339),
		"ended_at":         session.EndTime.Format(time.RFC3339),
		"duration_seconds": session.DurationSeconds,
		"session_date":     session.SessionDate,
		"notes":            session.Notes,
		"mood":             session.Mood,
	})
	if err != nil {
		return fmt.Errorf("encode session payload: %w", err)
	}
	results, err := a.hooks.EmitSessionSaved(ctx, hookdto.SessionSavedEvent{
		SessionID:   session.ID,
		DataPath:    a.dataPath,
		PayloadJSON: string(payload),
	})
	if err != nil {
		return err
	}
	for _, result := range results {
		if result.Error != "" {
			a.log.Warn("hook dispatch failed", "hook", result.HookName, "error", result.Error)
		}
	}
	return nil
}
