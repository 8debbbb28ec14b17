package domain

import "time"

const dateLayout = "2006-01-02"

// Segment is a day-bounded portion of a session.
type Segment struct {
	Date            string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
}

// SplitByDay partitions [start, end] at local midnights of loc into ordered
// day-attributed segments. Segment durations always sum to totalSeconds: each
// midnight-bounded segment claims at most its wall-clock length and the final
// segment absorbs whatever remains.
func SplitByDay(start, end time.Time, totalSeconds int64, loc *time.Location) []Segment {
	if loc == nil {
		loc = time.Local
	}
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	localStart := start.In(loc)
	localEnd := end.In(loc)

	if !localEnd.After(localStart) || sameDay(localStart, localEnd) {
		return []Segment{{
			Date:            localStart.Format(dateLayout),
			StartTime:       localStart,
			EndTime:         localEnd,
			DurationSeconds: totalSeconds,
		}}
	}

	segments := []Segment{}
	cursor := localStart
	remaining := totalSeconds
	for !sameDay(cursor, localEnd) {
		midnight := nextMidnight(cursor, loc)
		length := int64(midnight.Sub(cursor) / time.Second)
		if length > remaining {
			length = remaining
		}
		segments = append(segments, Segment{
			Date:            cursor.Format(dateLayout),
			StartTime:       cursor,
			EndTime:         midnight,
			DurationSeconds: length,
		})
		remaining -= length
		cursor = midnight
	}
	segments = append(segments, Segment{
		Date:            cursor.Format(dateLayout),
		StartTime:       cursor,
		EndTime:         localEnd,
		DurationSeconds: remaining,
	})
	return segments
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func nextMidnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}
