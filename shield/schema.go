package shield

import "database/sql"

// Schema defines the SQLite table used by the rate limiter:
// per-endpoint request quotas keyed by "METHOD /path".
//
// Apply with Init(db) or execute manually. The statement is idempotent
// (CREATE IF NOT EXISTS).
const Schema = `
CREATE TABLE IF NOT EXISTS rate_limits (
    endpoint       TEXT PRIMARY KEY,
    max_requests   INTEGER NOT NULL DEFAULT 60,
    window_seconds INTEGER NOT NULL DEFAULT 60,
    enabled        INTEGER NOT NULL DEFAULT 1
);
`

// Init creates the shield tables if they don't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
