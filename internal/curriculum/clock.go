package curriculum

import (
	"math"
	"strconv"
	"time"
)

// Clock supplies "now" for all remaining-days calculations.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the whole days from now to target, floored at 0.
// Both instants are compared by their wall-clock reading in target's
// location, so a DST switch does not shorten a day.
func DaysUntil(target, now time.Time) int {
	// Counted in seconds; a time.Duration caps near 292 years.
	t, n := wallClock(target), wallClock(now.In(target.Location()))
	secs := t.Unix() - n.Unix()
	if t.Nanosecond() < n.Nanosecond() {
		secs--
	}
	if secs <= 0 {
		return 0
	}
	return int(secs / secondsPerDay)
}

func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// RoundTo rounds x to the given number of decimal places, resolving ties to
// the even digit on the exact binary value.
func RoundTo(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}
