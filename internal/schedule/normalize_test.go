package schedule

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWrapper struct {
	t   time.Time
	err error
}

func (w fakeWrapper) ToTime() (time.Time, error) { return w.t, w.err }

func TestNormalize_Absent(t *testing.T) {
	inst, reason := Normalize(RawAbsent())
	assert.False(t, inst.Valid())
	assert.Equal(t, ReasonMissing, reason)
}

func TestNormalize_Time(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	inst, reason := Normalize(RawTime(at))
	require.Equal(t, ReasonNone, reason)
	assert.Equal(t, at.UnixMilli(), inst.Millis())
}

func TestNormalize_ZeroTimeIsMissing(t *testing.T) {
	inst, reason := Normalize(RawTime(time.Time{}))
	assert.False(t, inst.Valid())
	assert.Equal(t, ReasonMissing, reason)
}

func TestNormalize_Epoch(t *testing.T) {
	inst, reason := Normalize(RawEpoch(1_767_000_000_000))
	require.Equal(t, ReasonNone, reason)
	assert.Equal(t, int64(1_767_000_000_000), inst.Millis())
}

func TestNormalize_EpochNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		inst, reason := Normalize(RawEpoch(v))
		assert.False(t, inst.Valid(), "non-finite epoch %v must not produce a valid instant", v)
		assert.Equal(t, ReasonMalformed, reason)
	}
}

func TestNormalize_Strings(t *testing.T) {
	cases := []struct {
		in     string
		reason AbsentReason
	}{
		{"2026-03-10T09:30:00Z", ReasonNone},
		{"2026-03-10T09:30:00+01:00", ReasonNone},
		{"2026-03-10T09:30:00", ReasonNone},
		{"2026-03-10", ReasonNone},
		{"", ReasonMissing},
		{"not-a-date", ReasonMalformed},
		{"2026-13-45", ReasonMalformed},
		{"10/03/2026", ReasonMalformed},
	}
	for _, c := range cases {
		inst, reason := Normalize(RawString(c.in))
		assert.Equal(t, c.reason, reason, "input %q", c.in)
		assert.Equal(t, c.reason == ReasonNone, inst.Valid(), "input %q", c.in)
	}
}

func TestNormalize_Wrapped(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	inst, reason := Normalize(RawWrapped(fakeWrapper{t: at}))
	require.Equal(t, ReasonNone, reason)
	assert.Equal(t, at.UnixMilli(), inst.Millis())
}

func TestNormalize_WrappedFailure(t *testing.T) {
	inst, reason := Normalize(RawWrapped(fakeWrapper{err: fmt.Errorf("conversion blew up")}))
	assert.False(t, inst.Valid(), "a failing wrapper must degrade to absent, never panic")
	assert.Equal(t, ReasonMalformed, reason)
}

func TestNormalize_WrappedNil(t *testing.T) {
	inst, reason := Normalize(RawWrapped(nil))
	assert.False(t, inst.Valid())
	assert.Equal(t, ReasonMissing, reason)
}

// Feeding a normalized instant back through the normalizer returns the
// same instant.
func TestNormalize_Idempotent(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	once, _ := Normalize(RawTime(at))
	twice, _ := Normalize(RawTime(once.Time(time.UTC)))
	assert.True(t, once.Equal(twice))
}

func TestInstant_DayHelpers(t *testing.T) {
	a := At(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC))
	b := At(time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC))
	c := At(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))

	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(a, c, time.UTC))
	assert.False(t, SameDay(a, Absent, time.UTC), "absent never shares a day")

	day := DayOf(a, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), day.Time(time.UTC))
	assert.False(t, DayOf(Absent, time.UTC).Valid())
}

func TestInstant_MinutesOfDay(t *testing.T) {
	i := At(time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC))
	assert.Equal(t, 615, i.MinutesOfDay(time.UTC))
	assert.Equal(t, 0, Absent.MinutesOfDay(time.UTC))
}

func TestInstant_AddMinutes(t *testing.T) {
	i := At(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 645, i.AddMinutes(45).MinutesOfDay(time.UTC))
	assert.False(t, Absent.AddMinutes(45).Valid(), "absent stays absent under arithmetic")
}
