package clock

import "time"

// Now calls fn, falling back to the wall clock, and normalises to UTC.
func Now(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now().UTC()
	}
	return fn().UTC()
}
