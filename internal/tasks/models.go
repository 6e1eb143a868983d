package tasks

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
)

// ParseStatus accepts only the three known statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTask, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrInvalidTask, s)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of whole days from o to d. It is negative
// when d is before o.
func (d Date) DaysSince(o Date) int {
	return int(d.Time().Sub(o.Time()) / (24 * time.Hour))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: due_date must be a YYYY-MM-DD string", ErrInvalidTask)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("tasks: cannot scan %T into Date", src)
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("tasks: scan date: %w", err)
	}
	*d = DateOf(t)
	return nil
}

// Task is a sales work item. DaysOpen and PriorityScore are derived and
// refreshed through Rescore; the stored values are only a cache for sorting.
type Task struct {
	ID               int64      `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description,omitempty"`
	RevenuePotential float64    `db:"revenue_potential" json:"revenue_potential"`
	DaysOpen         int        `db:"days_open" json:"days_open"`
	PriorityScore    float64    `db:"priority_score" json:"priority_score"`
	ContactPerson    string     `db:"contact_person" json:"contact_person,omitempty"`
	Account          string     `db:"account" json:"account,omitempty"`
	NextSteps        string     `db:"next_steps" json:"next_steps,omitempty"`
	DueDate          *Date      `db:"due_date" json:"due_date"`
	Status           Status     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at"`
}

// Rescore returns a copy of t with DaysOpen and PriorityScore recomputed
// as of now.
func (t Task) Rescore(now time.Time) Task {
	t.DaysOpen = DaysOpen(t.CreatedAt, now)
	t.PriorityScore = PriorityScore(t.DaysOpen, t.RevenuePotential, t.Status)
	return t
}

// DaysUntilDue reports the days from now's UTC date to the due date, and
// false when the task has no due date.
func (t Task) DaysUntilDue(now time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return t.DueDate.DaysSince(DateOf(now.UTC())), true
}
