package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name     string
		daysOpen int
		revenue  float64
		status   Status
		want     float64
	}{
		{"fresh open task", 0, 0, StatusOpen, 50},
		{"fresh closed task", 0, 0, StatusClosed, 0},
		{"open with revenue", 10, 1000, StatusOpen, 5 + 300 + 50},
		{"in progress with revenue", 4, 500, StatusInProgress, 2 + 150},
		{"closed ignores bonus", 30, 20000, StatusClosed, 15 + 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PriorityScore(tt.daysOpen, tt.revenue, tt.status), 1e-9)
		})
	}
}

func TestPriorityScore_OpenBonusIsFifty(t *testing.T) {
	for _, days := range []int{0, 1, 7, 365} {
		for _, revenue := range []float64{0, 0.5, 1234.56, 1e6} {
			open := PriorityScore(days, revenue, StatusOpen)
			closed := PriorityScore(days, revenue, StatusClosed)
			assert.InDelta(t, 50, open-closed, 1e-6, "days=%d revenue=%v", days, revenue)
			assert.Equal(t, closed, PriorityScore(days, revenue, StatusInProgress))
		}
	}
}

func TestPriorityScore_Deterministic(t *testing.T) {
	a := PriorityScore(17, 98765.43, StatusOpen)
	b := PriorityScore(17, 98765.43, StatusOpen)
	assert.Equal(t, a, b)
}

func TestDaysOpen(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysOpen(time.Time{}, now), "missing created_at")
	assert.Equal(t, 0, DaysOpen(now.Add(-time.Minute+time.Second), now), "same day")
	assert.Equal(t, 1, DaysOpen(time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), now), "time of day is ignored")
	assert.Equal(t, 9, DaysOpen(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), now))
	// 2024 is a leap year.
	assert.Equal(t, 10, DaysOpen(time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC), now))
}

func TestTask_Rescore(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	orig := Task{
		ID:               1,
		RevenuePotential: 1000,
		Status:           StatusOpen,
		CreatedAt:        time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}

	got := orig.Rescore(now)

	assert.Equal(t, 4, got.DaysOpen)
	assert.InDelta(t, 4*0.5+1000*0.3+50, got.PriorityScore, 1e-9)
	assert.Zero(t, orig.DaysOpen, "input must not be modified")
	assert.Zero(t, orig.PriorityScore, "input must not be modified")
}
