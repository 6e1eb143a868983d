package analytics

import (
	"net/http"

	"sales-tracker-backend/internal/ai"
	"sales-tracker-backend/internal/cerr"
	"sales-tracker-backend/internal/clog"
	"sales-tracker-backend/internal/tasks"
)

// PipelineHandler: GET /analytics/pipeline?status=&account=
func PipelineHandler(reader ai.TaskReader, analyzer *ai.Analyzer, predictor *ai.Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := tasks.ParseListFilter(r)
		if err != nil {
			cerr.WriteError(ctx, w, tasks.HTTPError(err))
			return
		}

		ts, err := reader.List(ctx, f)
		if err != nil {
			cerr.WriteError(ctx, w, tasks.HTTPError(err))
			return
		}

		clog.AddAttribute(ctx, "task_count", len(ts))
		cerr.WriteJSON(ctx, w, http.StatusOK, Summarize(ts, analyzer, predictor))
	}
}
