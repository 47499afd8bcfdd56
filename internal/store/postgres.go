package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses. pgxmock
// satisfies it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    pgxPool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	customer_id TEXT NOT NULL,
	state       JSONB NOT NULL,
	history     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedback (
	id          TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	pitch_id    TEXT,
	response    TEXT NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_customer ON sessions(customer_id);
CREATE INDEX IF NOT EXISTS idx_feedback_customer ON feedback(customer_id);
CREATE INDEX IF NOT EXISTS idx_feedback_response ON feedback(response);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, state model.AgentState, history []model.AgentState) (*SessionRecord, error) {
	rec := &SessionRecord{
		ID:         uuid.New().String(),
		CustomerID: state.CustomerID,
		State:      state,
		History:    history,
		CreatedAt:  time.Now().UTC(),
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal state")
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal history")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, customer_id, state, history, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.CustomerID, stateJSON, historyJSON, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert session")
	}
	return rec, nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, customer_id, state, history, created_at FROM sessions WHERE id = $1`,
		id,
	)

	var rec SessionRecord
	var stateJSON, historyJSON []byte
	err := row.Scan(&rec.ID, &rec.CustomerID, &stateJSON, &historyJSON, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get session %s", id)
	}

	if err := json.Unmarshal(stateJSON, &rec.State); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal state")
	}
	if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal history")
	}
	return &rec, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, filter SessionFilter) ([]SessionRecord, error) {
	query := `SELECT id, customer_id, state, history, created_at FROM sessions WHERE 1=1`
	var args []any

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += ` AND customer_id = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sessions")
	}
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var stateJSON, historyJSON []byte
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &stateJSON, &historyJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan session")
		}
		if err := json.Unmarshal(stateJSON, &rec.State); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal state")
		}
		if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal history")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list sessions iterate")
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, fb model.AgentFeedback) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal feedback")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO feedback (id, customer_id, pitch_id, response, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.FeedbackID, fb.CustomerID, fb.PitchID, string(fb.CustomerResponse), payload, fb.Timestamp,
	)
	return eris.Wrap(err, "postgres: insert feedback")
}

func (s *PostgresStore) ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.AgentFeedback, error) {
	query := `SELECT payload FROM feedback WHERE 1=1`
	var args []any

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.Response != "" {
		args = append(args, string(filter.Response))
		query += ` AND response = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list feedback")
	}
	defer rows.Close()

	var out []model.AgentFeedback
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feedback")
		}
		var fb model.AgentFeedback
		if err := json.Unmarshal(payload, &fb); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal feedback")
		}
		out = append(out, fb)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list feedback iterate")
}

func (s *PostgresStore) CountFeedback(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count feedback")
}
