package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tempo/internal/modules/session/domain"
	sessionout "tempo/internal/modules/session/port/out"
	"tempo/internal/platform/markdown"
	"tempo/internal/platform/slug"
)

// JournalStore renders a saved session as a markdown note under
// journal/<year>/<month>/<date>-<activity>-<id>.md.
type JournalStore struct {
	dir string
}

func NewJournalStore(journalDir string) *JournalStore {
	return &JournalStore{dir: journalDir}
}

var _ sessionout.JournalStore = (*JournalStore)(nil)

func (s *JournalStore) Write(_ context.Context, session domain.CompletedSession) (string, error) {
	meta := map[string]any{
		"session_id":       session.ID,
		"activity":         session.ActivityName,
		"date":             session.SessionDate,
		"started_at":       session.StartTime.Format("15:04:05"),
		"ended_at":         session.EndTime.Format("15:04:05"),
		"duration_seconds": session.DurationSeconds,
	}
	if session.GoalID != "" {
		meta["goal_id"] = session.GoalID
	}
	if session.Mood > 0 {
		meta["mood"] = session.Mood
	}

	body := fmt.Sprintf("# %s\n\nLogged %s on %s.\n", session.ActivityName,
		domain.FormatElapsed(session.DurationSeconds), session.SessionDate)
	if session.Notes != "" {
		body += "\n" + session.Notes + "\n"
	}

	content, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, session.SessionDate[:4], session.SessionDate[5:7])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s.md", session.SessionDate, slug.Make(session.ActivityName), session.ID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}
