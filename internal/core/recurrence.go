package core

import "time"

// NextOccurrence returns the first date strictly after now on which an
// expense first dated start would repeat with interval r. It is a preview
// only: nothing in the ledger creates expenses from it. Unknown intervals
// return the zero time.
func (r RepetitionTypes) NextOccurrence(start, now time.Time) time.Time {
	if !r.IsValid() {
		return time.Time{}
	}
	if start.After(now) {
		return start
	}

	switch r {
	case Daily:
		days := int(now.Sub(start).Hours()/24) + 1
		next := start.AddDate(0, 0, days)
		for !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case Weekly:
		weeks := int(now.Sub(start).Hours()/(24*7)) + 1
		next := start.AddDate(0, 0, 7*weeks)
		for !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	case Monthly:
		months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
		for i := months; ; i++ {
			if next := addMonthsClamped(start, i); next.After(now) {
				return next
			}
		}
	default: // Yearly
		for i := now.Year() - start.Year(); ; i++ {
			if next := addMonthsClamped(start, 12*i); next.After(now) {
				return next
			}
		}
	}
}

// addMonthsClamped adds n months to t, clamping the day to the last day of
// the target month so the 31st repeats on the 30th or 28th/29th.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
