package tasks

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sales-tracker-backend/internal/cerr"
	"sales-tracker-backend/internal/clog"
	"sales-tracker-backend/internal/metrics"
)

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)
	r.Get("/tasks/{id}", h.Get)
	r.Put("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)
}

// ParseListFilter reads ?status= (repeatable or comma separated) and
// ?account= from the query string.
func ParseListFilter(r *http.Request) (ListFilter, error) {
	var f ListFilter
	q := r.URL.Query()
	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			st, err := ParseStatus(part)
			if err != nil {
				return ListFilter{}, err
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	f.Account = strings.TrimSpace(q.Get("account"))
	return f, nil
}

// ParseID reads the {id} path parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, cerr.NewError(cerr.InvalidArgument, "invalid task id", err)
	}
	return id, nil
}

// SortByPriority orders by priority desc, then oldest first, then id.
func SortByPriority(ts []Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].PriorityScore != ts[j].PriorityScore {
			return ts[i].PriorityScore > ts[j].PriorityScore
		}
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		return ts[i].ID < ts[j].ID
	})
}

// HTTPError maps store and validation errors onto API errors.
func HTTPError(err error) error {
	var cErr *cerr.Error
	switch {
	case errors.As(err, &cErr):
		return err
	case errors.Is(err, ErrTaskNotFound):
		return cerr.NewError(cerr.NotFound, "Task not found", err)
	case errors.Is(err, ErrInvalidTask):
		return cerr.NewError(cerr.InvalidArgument, err.Error(), err)
	default:
		return cerr.NewError(cerr.Internal, "database error", err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := ParseListFilter(r)
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	stored, err := h.store.List(ctx, f)
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	now := h.now()
	result := make([]Task, 0, len(stored))
	for _, t := range stored {
		result = append(result, t.Rescore(now))
	}
	metrics.TasksRescoredTotal.Add(float64(len(result)))
	if err := h.store.SaveScores(ctx, result); err != nil {
		metrics.ScoreWriteFailuresTotal.Inc()
		slog.WarnContext(ctx, "failed to persist recomputed scores", "count", len(result), "error", err)
	}
	SortByPriority(result)

	clog.AddAttribute(ctx, "task_count", len(result))
	cerr.WriteJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body CreateTaskRequest
	if err := cerr.DecodeJSON(r, &body); err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	if err := body.Validate(); err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	t := body.Task()
	t.DaysOpen = 0
	t.PriorityScore = PriorityScore(t.DaysOpen, t.RevenuePotential, t.Status)

	created, err := h.store.Create(ctx, t)
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	clog.AddAttribute(ctx, "task_id", created.ID)
	cerr.WriteJSON(ctx, w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := ParseID(r)
	if err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", id)

	t, err := h.store.Get(ctx, id)
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	t = t.Rescore(h.now())
	metrics.TasksRescoredTotal.Inc()
	if err := h.store.SaveScores(ctx, []Task{t}); err != nil {
		metrics.ScoreWriteFailuresTotal.Inc()
		slog.WarnContext(ctx, "failed to persist recomputed score", "task_id", id, "error", err)
	}

	cerr.WriteJSON(ctx, w, http.StatusOK, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := ParseID(r)
	if err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", id)

	var body UpdateTaskRequest
	if err := cerr.DecodeJSON(r, &body); err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	if err := body.Validate(); err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	existing, err := h.store.Get(ctx, id)
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	updated, err := h.store.Update(ctx, body.Apply(existing).Rescore(h.now()))
	if err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}
	metrics.TasksRescoredTotal.Inc()

	cerr.WriteJSON(ctx, w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := ParseID(r)
	if err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", id)

	if err := h.store.Delete(ctx, id); err != nil {
		cerr.WriteError(ctx, w, HTTPError(err))
		return
	}

	cerr.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"message": "Task deleted successfully",
	})
}
