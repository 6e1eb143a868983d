package tasks

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumnNames = []string{
	"id", "title", "description", "revenue_potential", "days_open", "priority_score",
	"contact_person", "account", "next_steps", "due_date", "status", "created_at", "updated_at",
}

var storeCreatedAt = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func taskRow(id int64, title string, status Status, due any) []driver.Value {
	return []driver.Value{
		id, title, "", 1500.0, int64(3), 451.5,
		"", "ACME", "", due, string(status), storeCreatedAt, nil,
	}
}

func TestPostgresStore_ListFilters(t *testing.T) {
	store, fake := newFakeStore(t)
	fake.respond = func(string, []driver.Value) ([]string, [][]driver.Value) {
		return taskColumnNames, [][]driver.Value{
			taskRow(1, "Renewal", StatusOpen, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
			taskRow(2, "Upsell", StatusClosed, nil),
		}
	}

	got, err := store.List(context.Background(), ListFilter{
		Statuses: []Status{StatusOpen, StatusClosed},
		Account:  "ACME",
	})
	require.NoError(t, err)

	call := fake.lastCall()
	assert.Contains(t, call.query, "WHERE status = ANY($1) AND account = $2")
	assert.Contains(t, call.query, "ORDER BY priority_score DESC, id ASC")
	assert.Equal(t, []driver.Value{`{"open","closed"}`, "ACME"}, call.args)

	require.Len(t, got, 2)
	assert.Equal(t, StatusOpen, got[0].Status)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, "2025-07-01", got[0].DueDate.String())
	assert.Equal(t, 3, got[0].DaysOpen)
	assert.True(t, storeCreatedAt.Equal(got[0].CreatedAt))
	assert.Nil(t, got[1].DueDate)
	assert.Nil(t, got[1].UpdatedAt)
}

func TestPostgresStore_ListWithoutFilter(t *testing.T) {
	store, fake := newFakeStore(t)

	got, err := store.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	call := fake.lastCall()
	assert.NotContains(t, call.query, "WHERE")
	assert.Empty(t, call.args)
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	store, _ := newFakeStore(t)

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestPostgresStore_CreateReturnsStoredRow(t *testing.T) {
	store, fake := newFakeStore(t)
	fake.respond = func(string, []driver.Value) ([]string, [][]driver.Value) {
		return taskColumnNames, [][]driver.Value{taskRow(7, "Demo", StatusOpen, "2025-07-01")}
	}

	got, err := store.Create(context.Background(), Task{
		Title:            "Demo",
		RevenuePotential: 1500,
		PriorityScore:    500,
		Account:          "ACME",
		Status:           StatusOpen,
	})
	require.NoError(t, err)

	call := fake.lastCall()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(call.query), "INSERT INTO tasks"))
	require.Len(t, call.args, 10)
	assert.Equal(t, "Demo", call.args[0])
	assert.Equal(t, int64(0), call.args[3])
	assert.Nil(t, call.args[8], "missing due date is NULL")
	assert.Equal(t, "open", call.args[9])

	assert.Equal(t, int64(7), got.ID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-07-01", got.DueDate.String())
}

func TestPostgresStore_Update(t *testing.T) {
	store, fake := newFakeStore(t)
	due := Date{Year: 2025, Month: time.August, Day: 2}

	_, err := store.Update(context.Background(), Task{ID: 9, Title: "Gone", Status: StatusClosed, DueDate: &due})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	call := fake.lastCall()
	assert.Contains(t, call.query, "updated_at = now()")
	require.Len(t, call.args, 11)
	assert.Equal(t, due.Time(), call.args[8])
	assert.Equal(t, "closed", call.args[9])
	assert.Equal(t, int64(9), call.args[10])
}

func TestPostgresStore_Delete(t *testing.T) {
	store, fake := newFakeStore(t)

	require.NoError(t, store.Delete(context.Background(), 3))
	assert.Equal(t, []driver.Value{int64(3)}, fake.lastCall().args)

	fake.affected = 0
	assert.ErrorIs(t, store.Delete(context.Background(), 3), ErrTaskNotFound)
}

func TestPostgresStore_SaveScores(t *testing.T) {
	store, fake := newFakeStore(t)

	require.NoError(t, store.SaveScores(context.Background(), nil))
	assert.Empty(t, fake.calls)

	err := store.SaveScores(context.Background(), []Task{
		{ID: 1, DaysOpen: 2, PriorityScore: 51},
		{ID: 2, DaysOpen: 10, PriorityScore: 5},
	})
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, []driver.Value{int64(2), 51.0, int64(1)}, fake.calls[0].args)
	assert.Equal(t, []driver.Value{int64(10), 5.0, int64(2)}, fake.calls[1].args)
	assert.Equal(t, 1, fake.commits)
}

func TestStoreError(t *testing.T) {
	check := &pq.Error{Code: "23514", Message: `new row violates check constraint "tasks_status_check"`}
	err := storeError("create task", fmt.Errorf("scan: %w", check))
	assert.ErrorIs(t, err, ErrInvalidTask)
	assert.Contains(t, err.Error(), "tasks_status_check")

	unique := &pq.Error{Code: "23505", Message: "duplicate key"}
	err = storeError("create task", unique)
	assert.NotErrorIs(t, err, ErrInvalidTask)
	assert.ErrorAs(t, err, new(*pq.Error))

	plain := errors.New("conn reset")
	assert.ErrorIs(t, storeError("update task 3", plain), plain)
}
