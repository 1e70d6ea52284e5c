package schedule

import "time"

// Instant is a validated point in time with millisecond precision. The
// zero value is "absent": every Instant past the normalizer is either a
// real point in time or absent, never a malformed value.
type Instant struct {
	ms    int64
	valid bool
}

// Absent is the absent Instant.
var Absent = Instant{}

// At returns the Instant for a time value.
func At(t time.Time) Instant {
	return Instant{ms: t.UnixMilli(), valid: true}
}

// AtMillis returns the Instant for epoch milliseconds.
func AtMillis(ms int64) Instant {
	return Instant{ms: ms, valid: true}
}

// Valid reports whether the Instant holds a real point in time.
func (i Instant) Valid() bool { return i.valid }

// Millis returns epoch milliseconds, zero when absent.
func (i Instant) Millis() int64 { return i.ms }

// Time converts to a time.Time in loc. Absent converts to the zero time.
func (i Instant) Time(loc *time.Location) time.Time {
	if !i.valid {
		return time.Time{}
	}
	return time.UnixMilli(i.ms).In(loc)
}

func (i Instant) Before(o Instant) bool { return i.valid && o.valid && i.ms < o.ms }
func (i Instant) After(o Instant) bool  { return i.valid && o.valid && i.ms > o.ms }
func (i Instant) Equal(o Instant) bool  { return i.valid == o.valid && i.ms == o.ms }

// AddMinutes returns the Instant shifted by n minutes. Absent stays absent.
func (i Instant) AddMinutes(n int) Instant {
	if !i.valid {
		return i
	}
	return Instant{ms: i.ms + int64(n)*60_000, valid: true}
}

// MinutesOfDay returns minutes since midnight in loc, zero when absent.
func (i Instant) MinutesOfDay(loc *time.Location) int {
	if !i.valid {
		return 0
	}
	t := i.Time(loc)
	return t.Hour()*60 + t.Minute()
}

// SameDay reports whether both instants fall on the same calendar day in loc.
func SameDay(a, b Instant, loc *time.Location) bool {
	if !a.valid || !b.valid {
		return false
	}
	ay, am, ad := a.Time(loc).Date()
	by, bm, bd := b.Time(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DayOf truncates the instant to midnight of its calendar day in loc.
func DayOf(i Instant, loc *time.Location) Instant {
	if !i.valid {
		return Absent
	}
	y, m, d := i.Time(loc).Date()
	return At(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
