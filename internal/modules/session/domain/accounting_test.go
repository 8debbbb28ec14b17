package domain_test

import (
	"testing"
	"time"

	"tempo/internal/modules/session/domain"
)

func TestElapsedFrozenWhileNotActive(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := domain.Elapsed(domain.StatePaused, 120, time.Time{}, now); got != 120 {
		t.Fatalf("paused elapsed = %d, want 120", got)
	}
	if got := domain.Elapsed(domain.StateEnded, 300, time.Time{}, now); got != 300 {
		t.Fatalf("ended elapsed = %d, want 300", got)
	}
}

func TestElapsedAddsCurrentRunWhileActive(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := domain.Elapsed(domain.StateActive, 120, start, start.Add(60*time.Second)); got != 180 {
		t.Fatalf("active elapsed = %d, want 180", got)
	}
}

func TestElapsedTruncatesAndNeverRegresses(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := domain.Elapsed(domain.StateActive, 0, start, start.Add(2*time.Second+999*time.Millisecond))
	second := domain.Elapsed(domain.StateActive, 0, start, start.Add(3*time.Second))
	if first != 2 {
		t.Fatalf("truncated elapsed = %d, want 2", first)
	}
	if second < first {
		t.Fatalf("elapsed regressed: %d -> %d", first, second)
	}
}

func TestElapsedClampsClockGoingBackward(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := domain.Elapsed(domain.StateActive, 45, start, start.Add(-10*time.Second)); got != 45 {
		t.Fatalf("elapsed with backwards clock = %d, want 45", got)
	}
}

func TestElapsedMonotonicOverPauseResumeSequence(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	// Simulate active/paused periods; elapsed must equal the sum of active
	// runs and never decrease between consecutive reads.
	type step struct {
		state      domain.State
		accum      int64
		lastActive time.Time
		at         time.Time
	}
	steps := []step{
		{domain.StateActive, 0, base, base.Add(30 * time.Second)},
		{domain.StateActive, 0, base, base.Add(120 * time.Second)},
		{domain.StatePaused, 120, time.Time{}, base.Add(400 * time.Second)},
		{domain.StateActive, 120, base.Add(420 * time.Second), base.Add(480 * time.Second)},
		{domain.StateEnded, 180, time.Time{}, base.Add(500 * time.Second)},
	}
	prev := int64(-1)
	for i, s := range steps {
		got := domain.Elapsed(s.state, s.accum, s.lastActive, s.at)
		if got < prev {
			t.Fatalf("step %d: elapsed regressed %d -> %d", i, prev, got)
		}
		prev = got
	}
	if prev != 180 {
		t.Fatalf("final elapsed = %d, want 180", prev)
	}
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{36000, "10:00:00"},
	}
	for _, c := range cases {
		if got := domain.FormatElapsed(c.seconds); got != c.want {
			t.Fatalf("FormatElapsed(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()
	allowed := map[[2]domain.State]bool{
		{domain.StateActive, domain.StatePaused}: true,
		{domain.StateActive, domain.StateEnded}:  true,
		{domain.StatePaused, domain.StateActive}: true,
		{domain.StatePaused, domain.StateEnded}:  true,
	}
	states := []domain.State{domain.StateActive, domain.StatePaused, domain.StateEnded}
	for _, from := range states {
		for _, to := range states {
			want := allowed[[2]domain.State{from, to}]
			if got := domain.CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSnapshotStaleness(t *testing.T) {
	t.Parallel()
	written := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := domain.Snapshot{State: domain.StatePaused, WriteInstant: written}
	if snap.Stale(written.Add(5 * time.Minute)) {
		t.Fatalf("snapshot at exactly the window must still be fresh")
	}
	if !snap.Stale(written.Add(5*time.Minute + time.Second)) {
		t.Fatalf("snapshot past the window must be stale")
	}
}
