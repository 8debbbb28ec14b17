package domain

import "time"

const SchemaVersion = 1

// State is the lifecycle state of an in-progress session draft.
type State string

const (
	StateActive State = "active"
	StatePaused State = "paused"
	StateEnded  State = "ended"
)

func (s State) Valid() bool {
	switch s {
	case StateActive, StatePaused, StateEnded:
		return true
	default:
		return false
	}
}

// CanTransition reports whether from -> to is a legal lifecycle move.
// Ended is terminal.
func CanTransition(from, to State) bool {
	switch from {
	case StateActive:
		return to == StatePaused || to == StateEnded
	case StatePaused:
		return to == StateActive || to == StateEnded
	default:
		return false
	}
}

// Draft is the single in-memory session being tracked. RecordID is the
// external store identity of its open-ended record and may be empty when the
// optimistic create failed.
type Draft struct {
	RecordID     string
	ActivityID   string
	ActivityName string
	GoalID       string
	StartTime    time.Time
}

// Reflection is what the user records after ending a session.
type Reflection struct {
	Mood  int
	Notes string
}

const (
	MoodMin = 1
	MoodMax = 5
)

func (r Reflection) Valid() bool {
	return r.Mood >= MoodMin && r.Mood <= MoodMax
}

// Snapshot is the durable accounting record that lets a session survive a
// process restart. It never carries identity, only accounting.
type Snapshot struct {
	State              State      `json:"state"`
	AccumulatedSeconds int64      `json:"accumulated_seconds"`
	LastTransition     *time.Time `json:"last_transition_instant"`
	WriteInstant       time.Time  `json:"write_instant"`
}

// SnapshotTTL is the freshness window beyond which a snapshot is untrusted.
const SnapshotTTL = 5 * time.Minute

func (s Snapshot) Stale(now time.Time) bool {
	return now.Sub(s.WriteInstant) > SnapshotTTL
}

// CompletedSession is one day-attributed record handed to the store. A draft
// that crosses a local midnight yields several of these.
type CompletedSession struct {
	ID              string
	ActivityID      string
	ActivityName    string
	GoalID          string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
	Notes           string
	Mood            int
	SessionDate     string
}

// DailyTotal aggregates saved sessions for one local calendar day.
type DailyTotal struct {
	Date         string
	TotalSeconds int64
	Sessions     int
}
