package domain

import (
	"fmt"
	"time"
)

// Elapsed computes whole elapsed seconds for a session. While not active the
// frozen accumulated value is authoritative; while active the current run is
// added on top. Sub-second remainders are truncated so two reads a
// millisecond apart can never regress.
func Elapsed(state State, accumulatedSeconds int64, lastActive, now time.Time) int64 {
	if state != StateActive || lastActive.IsZero() {
		return accumulatedSeconds
	}
	run := now.Sub(lastActive)
	if run < 0 {
		run = 0
	}
	return accumulatedSeconds + int64(run/time.Second)
}

// FormatElapsed renders seconds as H:MM:SS, or M:SS below one hour.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
