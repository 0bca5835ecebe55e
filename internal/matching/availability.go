package matching

import (
	"time"
)

// OverlapHorizon bounds how far ahead availability overlap counts toward a
// match. Dates beyond it are ignored even when both sides offer them.
const OverlapHorizon = 21 * 24 * time.Hour

// DateLayout is the wire form for availability dates.
const DateLayout = "2006-01-02"

// FirstOverlap returns the first date in a, between now and now plus the
// horizon, that also appears in b. Comparison is exact string equality on the
// ISO date. The scan follows a's original order, so an unsorted slice can
// return a later date than the chronological minimum; callers rely on that
// stability. Returns nil when either side is empty or nothing qualifies.
func FirstOverlap(a, b []string, now time.Time) *time.Time {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	cutoff := now.Add(OverlapHorizon)

	offered := make(map[string]bool, len(b))
	for _, d := range b {
		offered[d] = true
	}

	for _, d := range a {
		date, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		if date.Before(now) || date.After(cutoff) {
			continue
		}
		if offered[d] {
			return &date
		}
	}
	return nil
}
