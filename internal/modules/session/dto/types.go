package dto

import "time"

type StartInput struct {
	ActivityID   string
	ActivityName string
	GoalID       string
}

type StartOutput struct {
	RecordID      string
	ActivityID    string
	ActivityName  string
	StartedAt     time.Time
	AlreadyActive bool
}

type StatusOutput struct {
	State          string
	RecordID       string
	ActivityID     string
	ActivityName   string
	GoalID         string
	StartedAt      time.Time
	ElapsedSeconds int64
	Elapsed        string
	Active         bool
	HasSession     bool
}

type SaveInput struct {
	Mood  int
	Notes string
}

type SaveOutput struct {
	RecordID        string
	Segments        int
	DurationSeconds int64
	Duration        string
	GoalID          string
	GoalApplied     bool
	JournalPath     string
}

type SessionOutput struct {
	RecordID        string
	ActivityID      string
	ActivityName    string
	Date            string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Duration        string
	Notes           string
	Mood            int
}

type DailyTotalOutput struct {
	Date         string
	TotalSeconds int64
	Total        string
	Sessions     int
}

type RecoverOutput struct {
	Recovered bool
	Status    StatusOutput
}
