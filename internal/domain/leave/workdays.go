package leave

import "time"

// WorkingDays counts Monday to Friday dates in [start, end] inclusive.
func WorkingDays(start, end time.Time) int {
	s := civilDate(start)
	e := civilDate(end)
	count := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps is the inclusive range overlap test.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !civilDate(aStart).After(civilDate(bEnd)) && !civilDate(aEnd).Before(civilDate(bStart))
}
