// Package store persists workflow sessions and agent feedback. Three
// drivers exist: sqlite for local single-agent use, postgres for
// shared deployments, and a flat-file driver compatible with the
// legacy feedback JSON array.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// ErrSessionNotFound is returned when a session id has no record.
var ErrSessionNotFound = eris.New("store: session not found")

// SessionRecord is a persisted workflow run: the final state plus the
// full snapshot history.
type SessionRecord struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	State      model.AgentState   `json:"state"`
	History    []model.AgentState `json:"history"`
	CreatedAt  time.Time          `json:"created_at"`
}

// SessionFilter specifies criteria for listing sessions.
type SessionFilter struct {
	CustomerID string `json:"customer_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// FeedbackFilter specifies criteria for listing feedback.
type FeedbackFilter struct {
	CustomerID string                 `json:"customer_id,omitempty"`
	Response   model.CustomerResponse `json:"response,omitempty"`
	Limit      int                    `json:"limit,omitempty"`
}

// Store defines the persistence interface for workflow runs and agent
// feedback.
type Store interface {
	// Sessions
	SaveSession(ctx context.Context, state model.AgentState, history []model.AgentState) (*SessionRecord, error)
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]SessionRecord, error)

	// Feedback
	SaveFeedback(ctx context.Context, fb model.AgentFeedback) error
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.AgentFeedback, error)
	CountFeedback(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
