package domain_test

import (
	"testing"
	"time"

	"tempo/internal/modules/session/domain"
)

func TestSplitSameDayProducesSingleSegment(t *testing.T) {
	t.Parallel()
	loc := time.UTC
	start := time.Date(2024, 11, 10, 9, 0, 0, 0, loc)
	end := start.Add(90 * time.Minute)
	segments := domain.SplitByDay(start, end, 5400, loc)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Date != "2024-11-10" || segments[0].DurationSeconds != 5400 {
		t.Fatalf("unexpected segment: %+v", segments[0])
	}
}

func TestSplitAcrossMidnight(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2024, 11, 10, 23, 30, 0, 0, loc)
	end := time.Date(2024, 11, 11, 0, 15, 0, 0, loc)
	segments := domain.SplitByDay(start, end, 2700, loc)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Date != "2024-11-10" || segments[0].DurationSeconds != 1800 {
		t.Fatalf("first segment: %+v", segments[0])
	}
	if segments[1].Date != "2024-11-11" || segments[1].DurationSeconds != 900 {
		t.Fatalf("second segment: %+v", segments[1])
	}
}

func TestSplitMultipleDaysSumsExactly(t *testing.T) {
	t.Parallel()
	loc := time.UTC
	start := time.Date(2024, 11, 10, 22, 0, 0, 0, loc)
	end := time.Date(2024, 11, 13, 3, 0, 0, 0, loc)
	total := int64(end.Sub(start) / time.Second)
	segments := domain.SplitByDay(start, end, total, loc)
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
	var sum int64
	for i, seg := range segments {
		sum += seg.DurationSeconds
		if seg.StartTime.In(loc).Format("2006-01-02") != seg.Date {
			t.Fatalf("segment %d start %s outside reported date %s", i, seg.StartTime, seg.Date)
		}
		if i > 0 && !seg.StartTime.Equal(segments[i-1].EndTime) {
			t.Fatalf("gap between segment %d and %d", i-1, i)
		}
	}
	if sum != total {
		t.Fatalf("segment durations sum to %d, want %d", sum, total)
	}
}

func TestSplitWithPausedTimeLastSegmentAbsorbsRemainder(t *testing.T) {
	t.Parallel()
	loc := time.UTC
	// Session spans 2h of wall clock but only 30m was active; the first
	// segment claims at most its wall length, and here the total is smaller
	// than the pre-midnight span, so the final segment gets zero.
	start := time.Date(2024, 11, 10, 23, 0, 0, 0, loc)
	end := time.Date(2024, 11, 11, 1, 0, 0, 0, loc)
	segments := domain.SplitByDay(start, end, 1800, loc)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].DurationSeconds+segments[1].DurationSeconds != 1800 {
		t.Fatalf("durations must sum to 1800, got %d and %d",
			segments[0].DurationSeconds, segments[1].DurationSeconds)
	}
	if segments[0].DurationSeconds != 1800 || segments[1].DurationSeconds != 0 {
		t.Fatalf("unexpected distribution: %+v", segments)
	}
}

func TestSplitZeroLengthInterval(t *testing.T) {
	t.Parallel()
	loc := time.UTC
	at := time.Date(2024, 11, 10, 9, 0, 0, 0, loc)
	segments := domain.SplitByDay(at, at, 0, loc)
	if len(segments) != 1 || segments[0].DurationSeconds != 0 {
		t.Fatalf("unexpected segments for empty interval: %+v", segments)
	}
}

func TestSplitSumsExactlyAcrossArbitraryIntervals(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, loc)
	for offset := 0; offset < 48; offset += 5 {
		start := base.Add(time.Duration(offset) * time.Hour).Add(17 * time.Minute)
		for _, span := range []time.Duration{time.Minute, 7 * time.Hour, 30 * time.Hour} {
			end := start.Add(span)
			total := int64(span / time.Second)
			segments := domain.SplitByDay(start, end, total, loc)
			var sum int64
			for _, seg := range segments {
				if seg.DurationSeconds < 0 {
					t.Fatalf("negative segment duration: %+v", seg)
				}
				sum += seg.DurationSeconds
			}
			if sum != total {
				t.Fatalf("start=%s span=%s: sum %d != total %d", start, span, sum, total)
			}
		}
	}
}
