// Package store provides the SQLite persistence layer for conversion
// runs and their fallback review queue.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/domforge/convert"
	"github.com/hazyhaar/domforge/dbopen"
	"github.com/hazyhaar/domforge/idgen"
)

// Store is the conversion-run database handle.
type Store struct {
	DB    *sql.DB
	newID idgen.Generator
}

// Open opens (or creates) the SQLite database at path, applies the
// production pragmas and the run schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, newID: idgen.Prefixed("run_", idgen.NanoID(12))}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Run is one recorded conversion.
type Run struct {
	ID            string  `json:"id"`
	PageURL       string  `json:"page_url,omitempty"`
	Target        string  `json:"target"`
	State         string  `json:"state"`
	MinConfidence int     `json:"min_confidence"`
	TotalNodes    int     `json:"total_nodes"`
	NativeWidgets int     `json:"native_widgets"`
	HTMLFallbacks int     `json:"html_fallbacks"`
	ManualReview  int     `json:"manual_review"`
	AvgConfidence float64 `json:"avg_confidence"`
	CanExport     bool    `json:"can_export"`
	DurationMS    int64   `json:"duration_ms"`
	CreatedAt     int64   `json:"created_at"`
}

// SaveResult records a conversion result and its fallbacks. Returns
// the run id.
func (s *Store) SaveResult(ctx context.Context, pageURL string, opts convert.Options, res *convert.Result) (string, error) {
	run := Run{
		ID:            s.newID(),
		PageURL:       pageURL,
		Target:        string(res.Target),
		State:         "done",
		MinConfidence: opts.MinConfidence,
		TotalNodes:    res.Stats.TotalNodes,
		NativeWidgets: res.Stats.NativeWidgets,
		HTMLFallbacks: res.Stats.HTMLFallbacks,
		ManualReview:  res.Stats.ManualReview,
		AvgConfidence: res.Stats.AvgConfidence,
		CanExport:     true,
		DurationMS:    res.Stats.Duration.Milliseconds(),
		CreatedAt:     time.Now().Unix(),
	}
	if res.Validation != nil {
		run.State = string(res.Validation.State)
		run.CanExport = res.Validation.CanExport
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversion_runs
			(id, page_url, target, state, min_confidence, total_nodes,
			 native_widgets, html_fallbacks, manual_review, avg_confidence,
			 can_export, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PageURL, run.Target, run.State, run.MinConfidence,
		run.TotalNodes, run.NativeWidgets, run.HTMLFallbacks, run.ManualReview,
		run.AvgConfidence, boolToInt(run.CanExport), run.DurationMS, run.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	for _, f := range res.Fallbacks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_fallbacks (run_id, strategy, reason, markup, suggestion)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, string(f.Strategy), f.Reason, f.Markup, f.Suggestion)
		if err != nil {
			return "", fmt.Errorf("store: insert fallback: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return run.ID, nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, page_url, target, state, min_confidence, total_nodes,
		       native_widgets, html_fallbacks, manual_review, avg_confidence,
		       can_export, duration_ms, created_at
		FROM conversion_runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, page_url, target, state, min_confidence, total_nodes,
		       native_widgets, html_fallbacks, manual_review, avg_confidence,
		       can_export, duration_ms, created_at
		FROM conversion_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Fallbacks returns the fallback queue of one run.
func (s *Store) Fallbacks(ctx context.Context, runID string) ([]convert.Fallback, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT strategy, reason, markup, suggestion
		FROM run_fallbacks WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: fallbacks: %w", err)
	}
	defer rows.Close()

	var out []convert.Fallback
	for rows.Next() {
		var f convert.Fallback
		var strategy string
		if err := rows.Scan(&strategy, &f.Reason, &f.Markup, &f.Suggestion); err != nil {
			return nil, fmt.Errorf("store: scan fallback: %w", err)
		}
		f.Strategy = convert.FallbackStrategy(strategy)
		out = append(out, f)
	}
	return out, rows.Err()
}

// TargetStats summarizes runs per target.
type TargetStats struct {
	Target        string  `json:"target"`
	Runs          int     `json:"runs"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgFallbacks  float64 `json:"avg_fallbacks"`
}

// Stats aggregates per-target run statistics.
func (s *Store) Stats(ctx context.Context) ([]TargetStats, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT target, COUNT(*), AVG(avg_confidence), AVG(html_fallbacks)
		FROM conversion_runs GROUP BY target ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("store: stats: %w", err)
	}
	defer rows.Close()

	var out []TargetStats
	for rows.Next() {
		var ts TargetStats
		if err := rows.Scan(&ts.Target, &ts.Runs, &ts.AvgConfidence, &ts.AvgFallbacks); err != nil {
			return nil, fmt.Errorf("store: scan stats: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var canExport int
	err := row.Scan(&r.ID, &r.PageURL, &r.Target, &r.State, &r.MinConfidence,
		&r.TotalNodes, &r.NativeWidgets, &r.HTMLFallbacks, &r.ManualReview,
		&r.AvgConfidence, &canExport, &r.DurationMS, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan run: %w", err)
	}
	r.CanExport = canExport != 0
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
