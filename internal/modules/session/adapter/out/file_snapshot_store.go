package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tempo/internal/modules/session/domain"
	sessionout "tempo/internal/modules/session/port/out"
	apperrors "tempo/internal/platform/errors"
)

// FileSnapshotStore keeps one JSON snapshot file per session record under the
// state directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated snapshot behind.
type FileSnapshotStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileSnapshotStore(stateDir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileSnapshotStore{dir: stateDir}, nil
}

var _ sessionout.SnapshotStore = (*FileSnapshotStore)(nil)

func (s *FileSnapshotStore) Save(_ context.Context, recordID string, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := s.path(recordID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Load(_ context.Context, recordID string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(recordID))
	if os.IsNotExist(err) {
		return domain.Snapshot{}, fmt.Errorf("%w: snapshot for %s", apperrors.ErrNotFound, recordID)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *FileSnapshotStore) Clear(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(recordID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) path(recordID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("session_state_%s.json", recordID))
}
