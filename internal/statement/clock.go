package statement

import (
	"strings"
	"time"
)

// TimeOfDay extracts a time of day from free text. A candidate is a maximal run of
// digits and colons shaped exactly HH:MM or HH:MM:SS with valid ranges. When the text
// holds exactly one candidate its offset from midnight is returned; zero or several
// candidates yield 0 (midnight).
func TimeOfDay(s string) time.Duration {
	var (
		found time.Duration
		count int
	)

	for i := 0; i < len(s); {
		if !isClockByte(s[i]) {
			i++
			continue
		}

		j := i
		for j < len(s) && isClockByte(s[j]) {
			j++
		}

		if d, ok := parseClock(s[i:j]); ok {
			found = d
			count++
		}

		i = j
	}

	if count != 1 {
		return 0
	}

	return found
}

func isClockByte(b byte) bool {
	return b == ':' || (b >= '0' && b <= '9')
}

var clockUnits = []struct {
	limit int
	unit  time.Duration
}{
	{24, time.Hour},
	{60, time.Minute},
	{60, time.Second},
}

// parseClock accepts a run of digits and colons shaped HH:MM or HH:MM:SS.
func parseClock(run string) (time.Duration, bool) {
	parts := strings.Split(run, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	var d time.Duration

	for i, p := range parts {
		if len(p) != 2 {
			return 0, false
		}

		n := int(p[0]-'0')*10 + int(p[1]-'0')
		if n >= clockUnits[i].limit {
			return 0, false
		}

		d += time.Duration(n) * clockUnits[i].unit
	}

	return d, true
}

// At places the calendar day of day at wall-clock tod in loc and returns it in UTC.
func At(day time.Time, tod time.Duration, loc *time.Location) time.Time {
	h := int(tod / time.Hour)
	m := int(tod % time.Hour / time.Minute)
	sec := int(tod % time.Minute / time.Second)

	return time.Date(day.Year(), day.Month(), day.Day(), h, m, sec, 0, loc).UTC()
}

// JoinLines trims each line, drops empty ones and collapses whitespace runs to single spaces.
func JoinLines(lines ...string) string {
	return strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
}
