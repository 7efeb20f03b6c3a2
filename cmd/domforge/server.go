package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/domforge/convert"
	"github.com/hazyhaar/domforge/shield"
	"github.com/hazyhaar/domforge/store"
)

// convertRequest is the POST /convert payload.
type convertRequest struct {
	HTML          string `json:"html"`
	PageURL       string `json:"page_url,omitempty"`
	Target        string `json:"target"`
	MinConfidence *int   `json:"min_confidence,omitempty"`
}

type server struct {
	pipeline *convert.Pipeline
	store    *store.Store
	defaults convert.Options
	logger   *slog.Logger
}

func runServer(ctx context.Context, logger *slog.Logger, cfg *fileConfig, pipeline *convert.Pipeline, st *store.Store) error {
	s := &server{
		pipeline: pipeline,
		store:    st,
		defaults: cfg.options(),
		logger:   logger,
	}

	r := chi.NewRouter()
	stack, rl := shield.DefaultAPIStack(storeDB(st))
	if rl != nil {
		done := make(chan struct{})
		defer close(done)
		rl.StartReloader(done)
	}
	for _, mw := range stack {
		r.Use(mw)
	}

	r.Get("/healthz", s.handleHealthz)
	r.Post("/convert", s.handleConvert)
	r.Get("/runs", s.handleRuns)
	r.Get("/runs/{id}", s.handleRun)
	r.Get("/stats", s.handleStats)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("domforge: listening", "addr", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// storeDB exposes the run database for shield's rate limiter, applying
// the rate_limits schema on the way. Returns nil when no store is open.
func storeDB(st *store.Store) *sql.DB {
	if st == nil {
		return nil
	}
	if err := shield.Init(st.DB); err != nil {
		slog.Warn("domforge: shield schema init failed", "error", err)
		return nil
	}
	return st.DB
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, errors.New("html is required"))
		return
	}

	opts := s.defaults
	if req.Target != "" {
		opts.Target = convert.Target(req.Target)
	}
	if req.MinConfidence != nil {
		opts.MinConfidence = *req.MinConfidence
	}

	res, err := s.pipeline.ConvertHTML(r.Context(), []byte(req.HTML), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if s.store != nil {
		if id, err := s.store.SaveResult(r.Context(), req.PageURL, opts, res); err != nil {
			shield.GetLogger(r.Context()).Warn("record run failed", "error", err)
		} else {
			w.Header().Set("X-Run-ID", id)
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("run recording is not enabled"))
		return
	}
	runs, err := s.store.ListRuns(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("run recording is not enabled"))
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	fallbacks, err := s.store.Fallbacks(r.Context(), run.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run":       run,
		"fallbacks": fallbacks,
	})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("run recording is not enabled"))
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
