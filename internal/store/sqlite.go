package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	state       TEXT NOT NULL,
	history     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS feedback (
	id          TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	pitch_id    TEXT,
	response    TEXT NOT NULL,
	payload     TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_customer ON sessions(customer_id);
CREATE INDEX IF NOT EXISTS idx_feedback_customer ON feedback(customer_id);
CREATE INDEX IF NOT EXISTS idx_feedback_response ON feedback(response);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, state model.AgentState, history []model.AgentState) (*SessionRecord, error) {
	rec := &SessionRecord{
		ID:         uuid.New().String(),
		CustomerID: state.CustomerID,
		State:      state,
		History:    history,
		CreatedAt:  time.Now().UTC(),
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal state")
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal history")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer_id, state, history, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.CustomerID, string(stateJSON), string(historyJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert session")
	}
	return rec, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, state, history, created_at FROM sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

func (s *SQLiteStore) ListSessions(ctx context.Context, filter SessionFilter) ([]SessionRecord, error) {
	query := `SELECT id, customer_id, state, history, created_at FROM sessions WHERE 1=1`
	var args []any

	if filter.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, filter.CustomerID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sessions")
	}
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *r)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list sessions iterate")
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, fb model.AgentFeedback) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal feedback")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, customer_id, pitch_id, response, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		fb.FeedbackID, fb.CustomerID, fb.PitchID, string(fb.CustomerResponse), string(payload), fb.Timestamp,
	)
	return eris.Wrap(err, "sqlite: insert feedback")
}

func (s *SQLiteStore) ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.AgentFeedback, error) {
	query := `SELECT payload FROM feedback WHERE 1=1`
	var args []any

	if filter.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, filter.CustomerID)
	}
	if filter.Response != "" {
		query += ` AND response = ?`
		args = append(args, string(filter.Response))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list feedback")
	}
	defer rows.Close()

	var out []model.AgentFeedback
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feedback")
		}
		var fb model.AgentFeedback
		if err := json.Unmarshal([]byte(payload), &fb); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal feedback")
		}
		out = append(out, fb)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list feedback iterate")
}

func (s *SQLiteStore) CountFeedback(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count feedback")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanSession(row scannable) (*SessionRecord, error) {
	var rec SessionRecord
	var stateJSON, historyJSON string

	err := row.Scan(&rec.ID, &rec.CustomerID, &stateJSON, &historyJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan session")
	}

	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal state")
	}
	if err := json.Unmarshal([]byte(historyJSON), &rec.History); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal history")
	}
	return &rec, nil
}
