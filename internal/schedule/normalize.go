package schedule

import (
	"math"
	"time"
)

// rawKind discriminates the input shapes Normalize accepts.
type rawKind int

const (
	rawAbsent rawKind = iota
	rawTime
	rawEpoch
	rawString
	rawWrapped
)

// TimestampWrapper is a value that can convert itself into a time.Time,
// such as a driver-level timestamp. The conversion itself may fail.
type TimestampWrapper interface {
	ToTime() (time.Time, error)
}

// RawDate is one raw date value from an external record, in any of the
// shapes stored data may produce. Construct with the Raw* helpers.
type RawDate struct {
	kind    rawKind
	t       time.Time
	epoch   float64
	s       string
	wrapped TimestampWrapper
}

// RawAbsent is a missing value (nil column, absent field).
func RawAbsent() RawDate { return RawDate{kind: rawAbsent} }

// RawTime wraps an already-parsed time value.
func RawTime(t time.Time) RawDate { return RawDate{kind: rawTime, t: t} }

// RawEpoch wraps epoch milliseconds. Non-finite values are malformed.
func RawEpoch(ms float64) RawDate { return RawDate{kind: rawEpoch, epoch: ms} }

// RawString wraps an ISO-8601-like string.
func RawString(s string) RawDate { return RawDate{kind: rawString, s: s} }

// RawWrapped wraps a TimestampWrapper. A nil wrapper is a missing value.
func RawWrapped(w TimestampWrapper) RawDate { return RawDate{kind: rawWrapped, wrapped: w} }

// AbsentReason says why Normalize produced an absent Instant.
type AbsentReason string

const (
	ReasonNone      AbsentReason = ""
	ReasonMissing   AbsentReason = "missing"
	ReasonMalformed AbsentReason = "malformed"
)

// isoLayouts are the string layouts Normalize accepts, tried in order.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts one raw date value into an Instant. It never fails:
// a missing input yields an absent Instant with ReasonMissing, anything
// unparseable yields an absent Instant with ReasonMalformed. Every date
// field passes through here before any comparison or arithmetic, so
// downstream code only ever sees valid-or-absent instants.
func Normalize(raw RawDate) (Instant, AbsentReason) {
	switch raw.kind {
	case rawTime:
		if raw.t.IsZero() {
			return Absent, ReasonMissing
		}
		return At(raw.t), ReasonNone
	case rawEpoch:
		if math.IsNaN(raw.epoch) || math.IsInf(raw.epoch, 0) {
			return Absent, ReasonMalformed
		}
		return AtMillis(int64(raw.epoch)), ReasonNone
	case rawString:
		if raw.s == "" {
			return Absent, ReasonMissing
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw.s); err == nil {
				return At(t), ReasonNone
			}
		}
		return Absent, ReasonMalformed
	case rawWrapped:
		if raw.wrapped == nil {
			return Absent, ReasonMissing
		}
		t, err := raw.wrapped.ToTime()
		if err != nil || t.IsZero() {
			return Absent, ReasonMalformed
		}
		return At(t), ReasonNone
	default:
		return Absent, ReasonMissing
	}
}
