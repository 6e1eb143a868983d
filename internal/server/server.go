package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"sales-tracker-backend/internal/ai"
	"sales-tracker-backend/internal/analytics"
	"sales-tracker-backend/internal/cerr"
	"sales-tracker-backend/internal/clog"
	"sales-tracker-backend/internal/config"
	"sales-tracker-backend/internal/metrics"
	"sales-tracker-backend/internal/tasks"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	server *http.Server
	cfg    *config.Config
	logger *slog.Logger
	db     Pinger
	store  tasks.Store
}

func New(cfg *config.Config, logger *slog.Logger, db Pinger, store tasks.Store) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  store,
	}
}

// Handler builds the full HTTP stack with routes and middleware, wrapped in CORS.
func (s *Server) Handler() http.Handler {
	analyzer := ai.NewAnalyzer()
	predictor := ai.NewPredictor()

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		clog.SlogChiMiddleware(s.logger),
		metrics.Middleware,
		middleware.Recoverer,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		cerr.WriteJSON(r.Context(), w, http.StatusOK, map[string]any{
			"message": "Sales Task Tracker API",
		})
	})
	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	tasks.NewHandler(s.store).Routes(r)
	ai.NewHandler(s.store, analyzer, predictor).Routes(r)
	r.Get("/analytics/pipeline", analytics.PipelineHandler(s.store, analyzer, predictor))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cerr.WriteError(r.Context(), w, cerr.NewError(cerr.NotFound, "not found", nil))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		cerr.WriteError(r.Context(), w, cerr.NewError(cerr.Unavailable, "database unavailable", err))
		return
	}
	w.Write([]byte("OK"))
}

// ListenAndServe serves until Shutdown. Request contexts derive from ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:        s.cfg.HTTPAddr,
		Handler:     h2c.NewHandler(s.Handler(), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	s.logger.Info("starting server", "addr", s.cfg.HTTPAddr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
