package export

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/fakeyudi/studylapse/internal/studytime"
)

const schema = `
CREATE TABLE sessions (
	id         TEXT,
	date       TEXT NOT NULL,
	task       TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT,
	duration   REAL NOT NULL DEFAULT 0
);
CREATE INDEX idx_sessions_date ON sessions(date);
CREATE INDEX idx_sessions_task ON sessions(task);

CREATE TABLE daily_study (
	date    TEXT PRIMARY KEY,
	seconds INTEGER NOT NULL
);
`

// ToSQLite writes a fresh SQLite database at path. An existing file is
// replaced.
func ToSQLite(records []Record, daily studytime.Daily, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO sessions (id, date, task, start_time, end_time, duration) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sessions insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var end sql.NullString
		if r.End != "" {
			end = sql.NullString{String: r.End, Valid: true}
		}
		var id sql.NullString
		if r.ID != "" {
			id = sql.NullString{String: r.ID, Valid: true}
		}
		if _, err := stmt.Exec(id, r.Date, r.Task, r.Start, end, r.DurationSec); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	for date, secs := range daily {
		if _, err := tx.Exec(`INSERT INTO daily_study (date, seconds) VALUES (?, ?)`, date, secs); err != nil {
			return fmt.Errorf("insert daily study: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
