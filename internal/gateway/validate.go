package gateway

import (
	"math"
	"strings"
	"time"
)

// IsPositiveNumber reports whether v is a finite number strictly greater
// than zero.
func IsPositiveNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// IsBlank reports whether s is empty after trimming surrounding whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidatePaymentIDs reports whether every id in the list is positive. One
// bad entry rejects the whole list; no transition is attempted afterwards.
func ValidatePaymentIDs(ids []int64) bool {
	for _, id := range ids {
		if id <= 0 {
			return false
		}
	}
	return true
}

// PayoutDateElapsed reports whether at least one full calendar day has
// passed since the last payout. The comparison is date-only; a zero last
// payout (shop never paid out) always passes.
func PayoutDateElapsed(last, now time.Time) bool {
	next := dateOnly(last).AddDate(0, 0, 1)
	return !dateOnly(now).Before(next)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
