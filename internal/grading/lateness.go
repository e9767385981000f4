package grading

import "time"

const dayMillis = 24 * 60 * 60 * 1000

// Lateness classifies a submission against the assignment due date. The day
// count uses calendar-agnostic elapsed UTC milliseconds with ceiling
// rounding, so a submission one minute past the deadline is one day late.
// The function is idempotent for identical inputs; callers apply it once per
// grading pass and again only when a resubmission replaces submittedAt.
func Lateness(submittedAt, dueDate time.Time) (isLate bool, daysLate int) {
	if !submittedAt.After(dueDate) {
		return false, 0
	}
	elapsed := submittedAt.UTC().UnixMilli() - dueDate.UTC().UnixMilli()
	days := elapsed / dayMillis
	if elapsed%dayMillis != 0 {
		days++
	}
	return true, int(days)
}
