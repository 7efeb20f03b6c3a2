package store

// Schema contains the complete DDL for the conversion run tables.
const Schema = `
-- One row per conversion run: what was converted, to which target, how it went
CREATE TABLE IF NOT EXISTS conversion_runs (
    id              TEXT PRIMARY KEY,
    page_url        TEXT NOT NULL DEFAULT '',
    target          TEXT NOT NULL,
    state           TEXT NOT NULL DEFAULT 'done',
    min_confidence  INTEGER NOT NULL DEFAULT 0,
    total_nodes     INTEGER NOT NULL DEFAULT 0,
    native_widgets  INTEGER NOT NULL DEFAULT 0,
    html_fallbacks  INTEGER NOT NULL DEFAULT 0,
    manual_review   INTEGER NOT NULL DEFAULT 0,
    avg_confidence  REAL NOT NULL DEFAULT 0.0,
    can_export      INTEGER NOT NULL DEFAULT 1,
    duration_ms     INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_target ON conversion_runs(target);
CREATE INDEX IF NOT EXISTS idx_runs_created ON conversion_runs(created_at DESC);

-- Degraded nodes recorded per run (review queue)
CREATE TABLE IF NOT EXISTS run_fallbacks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES conversion_runs(id) ON DELETE CASCADE,
    strategy    TEXT NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    markup      TEXT NOT NULL DEFAULT '',
    suggestion  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_fallbacks_run ON run_fallbacks(run_id);
`
