package core

import "time"

// IsStale reports whether an input with modification time in must be
// reprocessed given its output's modification time.
//
// A missing output is always stale. Otherwise the input must be strictly
// newer than the output. A non-zero floor (the newest partial, when partial
// invalidation is enabled) makes any output older than it stale as well.
func IsStale(in time.Time, out time.Time, outExists bool, floor time.Time) bool {
	if !outExists {
		return true
	}
	if in.After(out) {
		return true
	}
	return !floor.IsZero() && floor.After(out)
}
