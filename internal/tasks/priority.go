package tasks

import "time"

const (
	daysOpenWeight = 0.5
	revenueWeight  = 0.3
	openBonus      = 50
)

// PriorityScore is the canonical ranking value:
//
//	days_open*0.5 + revenue*0.3 + 50 if the task is still open
//
// Callers guarantee non-negative inputs.
func PriorityScore(daysOpen int, revenuePotential float64, status Status) float64 {
	score := float64(daysOpen)*daysOpenWeight + revenuePotential*revenueWeight
	switch status {
	case StatusOpen:
		score += openBonus
	case StatusInProgress, StatusClosed:
	}
	return score
}

// DaysOpen counts UTC calendar days between createdAt and now, ignoring
// the time of day. A zero createdAt counts as zero days.
func DaysOpen(createdAt, now time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	return DateOf(now.UTC()).DaysSince(DateOf(createdAt.UTC()))
}
