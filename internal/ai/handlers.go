package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sales-tracker-backend/internal/cerr"
	"sales-tracker-backend/internal/clog"
	"sales-tracker-backend/internal/tasks"
)

// TaskReader is the part of tasks.Store the insight endpoints need.
type TaskReader interface {
	Get(ctx context.Context, id int64) (tasks.Task, error)
	List(ctx context.Context, f tasks.ListFilter) ([]tasks.Task, error)
}

type Handler struct {
	tasks     TaskReader
	analyzer  *Analyzer
	predictor *Predictor
}

func NewHandler(tasks TaskReader, analyzer *Analyzer, predictor *Predictor) *Handler {
	return &Handler{
		tasks:     tasks,
		analyzer:  analyzer,
		predictor: predictor,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/tasks/{id}/analysis", h.TaskAnalysis)
	r.Post("/ai/analyze", h.Analyze)
	r.Post("/ai/extract-revenue", h.ExtractRevenue)
	r.Get("/forecast", h.Forecast)
}

type TaskAnalysisResponse struct {
	TaskID             int64    `json:"task_id,omitempty"`
	Analysis           Analysis `json:"analysis"`
	NextActions        []string `json:"next_actions"`
	ClosureProbability float64  `json:"closure_probability"`
	ExtractedRevenue   float64  `json:"extracted_revenue"`
	RevenueFromText    bool     `json:"revenue_from_text"`
}

func (h *Handler) respond(t tasks.Task) TaskAnalysisResponse {
	return TaskAnalysisResponse{
		TaskID:             t.ID,
		Analysis:           h.analyzer.Analyze(t),
		NextActions:        SuggestNextActions(t),
		ClosureProbability: h.predictor.ClosureProbability(t),
		ExtractedRevenue:   ExtractRevenue(t.Title + " " + t.Description),
	}
}

// TaskAnalysis: GET /tasks/{id}/analysis
func (h *Handler) TaskAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := tasks.ParseID(r)
	if err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	clog.AddAttribute(ctx, "task_id", id)

	t, err := h.tasks.Get(ctx, id)
	if err != nil {
		cerr.WriteError(ctx, w, tasks.HTTPError(err))
		return
	}

	cerr.WriteJSON(ctx, w, http.StatusOK, h.respond(t))
}

// Analyze scores a task payload that has not been saved. When the payload
// carries no revenue, the amount found in its text is used instead.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body tasks.CreateTaskRequest
	if err := cerr.DecodeJSON(r, &body); err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	if err := body.Validate(); err != nil {
		cerr.WriteError(ctx, w, tasks.HTTPError(err))
		return
	}

	t := body.Task()
	fromText := false
	if t.RevenuePotential == 0 {
		if extracted := ExtractRevenue(t.Title + " " + t.Description); extracted > 0 {
			t.RevenuePotential = extracted
			fromText = true
		}
	}

	resp := h.respond(t)
	resp.RevenueFromText = fromText
	cerr.WriteJSON(ctx, w, http.StatusOK, resp)
}

// ExtractRevenue: POST /ai/extract-revenue {"text": "..."}
func (h *Handler) ExtractRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body struct {
		Text string `json:"text"`
	}
	if err := cerr.DecodeJSON(r, &body); err != nil {
		cerr.WriteError(ctx, w, err)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		cerr.WriteError(ctx, w, cerr.NewError(cerr.InvalidArgument, "text is required", nil))
		return
	}

	cerr.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"revenue": ExtractRevenue(body.Text),
	})
}

// Forecast: GET /forecast?status=&account=
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := tasks.ParseListFilter(r)
	if err != nil {
		cerr.WriteError(ctx, w, tasks.HTTPError(err))
		return
	}

	ts, err := h.tasks.List(ctx, f)
	if err != nil {
		cerr.WriteError(ctx, w, tasks.HTTPError(err))
		return
	}

	clog.AddAttribute(ctx, "task_count", len(ts))
	cerr.WriteJSON(ctx, w, http.StatusOK, h.predictor.Forecast(ts))
}
