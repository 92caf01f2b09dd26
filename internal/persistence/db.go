// Package persistence keeps a SQLite journal of editing sessions: the
// generation parameters each session started from and every change it
// applied. It is a diagnostic record; the grid is never loaded back from it.
package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ski-resort/internal/world"
)

// ErrNoSession is returned when changes are recorded before BeginSession.
var ErrNoSession = errors.New("no journal session started")

// DB wraps a SQLite connection for the session journal.
type DB struct {
	conn    *sqlx.DB
	session string
}

// SessionRecord is one row of the sessions table.
type SessionRecord struct {
	ID          string  `db:"id" json:"id"`
	StartedAt   int64   `db:"started_at" json:"started_at"` // Unix seconds
	Width       int     `db:"width" json:"width"`
	Length      int     `db:"length" json:"length"`
	Seed        int64   `db:"seed" json:"seed"`
	PeakHeight  float64 `db:"peak_height" json:"peak_height"`
	PeakWidth   float64 `db:"peak_width" json:"peak_width"`
	SlopeHeight float64 `db:"slope_height" json:"slope_height"`
}

// ChangeRecord is one journaled change.
type ChangeRecord struct {
	ID         int64  `db:"id" json:"id"`
	SessionID  string `db:"session_id" json:"session_id"`
	Frame      uint64 `db:"frame" json:"frame"`
	Kind       string `db:"kind" json:"kind"`
	Q          int    `db:"q" json:"q"`
	R          int    `db:"r" json:"r"`
	InstanceID uint32 `db:"instance_id" json:"instance_id"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		width INTEGER NOT NULL,
		length INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		peak_height REAL NOT NULL,
		peak_width REAL NOT NULL,
		slope_height REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		frame INTEGER NOT NULL,
		kind TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		instance_id INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_changes_session ON changes(session_id, frame);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginSession records the parameters of a freshly generated grid and makes
// it the session that later changes are attributed to.
func (db *DB) BeginSession(g *world.Grid) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO sessions
		(id, started_at, width, length, seed, peak_height, peak_width, slope_height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), g.Width, g.Length, g.Config.Seed,
		g.Config.PeakHeight, g.Config.PeakWidth, g.Config.SlopeHeight,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	db.session = id
	slog.Info("journal session started", "session", id, "seed", g.Config.Seed)
	return id, nil
}

// SessionID returns the current session, or "" before BeginSession.
func (db *DB) SessionID() string {
	return db.session
}

// RecordChanges appends the changes of one frame to the current session.
func (db *DB) RecordChanges(frame uint64, changes []world.Change) error {
	if len(changes) == 0 {
		return nil
	}
	if db.session == "" {
		return ErrNoSession
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO changes
		(session_id, frame, kind, q, r, instance_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ch := range changes {
		_, err := stmt.Exec(db.session, int64(frame), ch.Kind.String(), ch.Cell.Q, ch.Cell.R, int64(ch.Instance))
		if err != nil {
			return fmt.Errorf("insert change for frame %d: %w", frame, err)
		}
	}

	return tx.Commit()
}

// RecentChanges returns the most recent changes of the current session,
// newest first.
func (db *DB) RecentChanges(limit int) ([]ChangeRecord, error) {
	var out []ChangeRecord
	err := db.conn.Select(&out,
		`SELECT id, session_id, frame, kind, q, r, instance_id FROM changes
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		db.session, limit,
	)
	return out, err
}

// Sessions returns every journaled session, newest first.
func (db *DB) Sessions() ([]SessionRecord, error) {
	var out []SessionRecord
	err := db.conn.Select(&out,
		`SELECT id, started_at, width, length, seed, peak_height, peak_width, slope_height
		 FROM sessions ORDER BY started_at DESC, rowid DESC`)
	return out, err
}

// SaveMeta stores a key-value pair in journal metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO journal_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM journal_meta WHERE key = ?", key)
	return value, err
}
