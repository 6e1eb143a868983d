package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store persists tasks. Implementations keep days_open and priority_score
// as written by the caller; they never compute them.
type Store interface {
	List(ctx context.Context, f ListFilter) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id int64) error
	SaveScores(ctx context.Context, ts []Task) error
}

const taskColumns = `
	id, title, description, revenue_potential, days_open, priority_score,
	contact_person, account, next_steps, due_date, status, created_at, updated_at`

type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, f ListFilter) ([]Task, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = st.String()
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.Account != "" {
		args = append(args, f.Account)
		where = append(where, fmt.Sprintf("account = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY priority_score DESC, id ASC`

	var out []Task
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Task, error) {
	var t Task
	err := s.db.GetContext(ctx, &t, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("get task %d: %w", id, ErrTaskNotFound)
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *PostgresStore) Create(ctx context.Context, t Task) (Task, error) {
	var out Task
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO tasks (
			title, description, revenue_potential, days_open, priority_score,
			contact_person, account, next_steps, due_date, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.RevenuePotential, t.DaysOpen, t.PriorityScore,
		t.ContactPerson, t.Account, t.NextSteps, t.DueDate, t.Status.String(),
	).StructScan(&out)
	if err != nil {
		return Task{}, storeError("create task", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, t Task) (Task, error) {
	var out Task
	err := s.db.QueryRowxContext(ctx, `
		UPDATE tasks SET
			title = $1,
			description = $2,
			revenue_potential = $3,
			days_open = $4,
			priority_score = $5,
			contact_person = $6,
			account = $7,
			next_steps = $8,
			due_date = $9,
			status = $10,
			updated_at = now()
		WHERE id = $11
		RETURNING `+taskColumns,
		t.Title, t.Description, t.RevenuePotential, t.DaysOpen, t.PriorityScore,
		t.ContactPerson, t.Account, t.NextSteps, t.DueDate, t.Status.String(),
		t.ID,
	).StructScan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("update task %d: %w", t.ID, ErrTaskNotFound)
	}
	if err != nil {
		return Task{}, storeError(fmt.Sprintf("update task %d", t.ID), err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete task %d: %w", id, ErrTaskNotFound)
	}
	return nil
}

// storeError reports rows rejected by the table's CHECK constraints as
// invalid tasks.
func storeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "check_violation" {
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidTask, pqErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// SaveScores writes back the derived columns of ts in one transaction.
func (s *PostgresStore) SaveScores(ctx context.Context, ts []Task) error {
	if len(ts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE tasks SET days_open = $1, priority_score = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		if _, err := stmt.ExecContext(ctx, t.DaysOpen, t.PriorityScore, t.ID); err != nil {
			return fmt.Errorf("save scores for task %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}
