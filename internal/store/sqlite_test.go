package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "agent.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func completedState(customerID string) model.AgentState {
	return model.AgentState{
		CustomerID:  customerID,
		CurrentStep: model.StepCompleted,
		Recommendations: []model.ProductRecommendation{
			{Product: model.ProductRef{Product: "TEMPORAIRE DECES"}, Priority: 2},
		},
		CommercialPitch: &model.CommercialPitch{
			PitchID:    "pitch-1",
			CustomerID: customerID,
			Urgency:    model.UrgencyMedium,
		},
	}
}

func sampleFeedback(id, customerID string, resp model.CustomerResponse) model.AgentFeedback {
	return model.AgentFeedback{
		FeedbackID:       id,
		CustomerID:       customerID,
		PitchID:          "pitch-1",
		AgentNotes:       "notes",
		CustomerResponse: resp,
	}
}

func TestSQLiteSessionRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	state := completedState("P001")
	history := []model.AgentState{
		{CustomerID: "P001", CurrentStep: model.StepCustomerAnalysis},
		state,
	}

	rec, err := s.SaveSession(ctx, state, history)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	got, err := s.GetSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "P001", got.CustomerID)
	assert.Equal(t, model.StepCompleted, got.State.CurrentStep)
	require.Len(t, got.History, 2)
	require.NotNil(t, got.State.CommercialPitch)
	assert.Equal(t, "pitch-1", got.State.CommercialPitch.PitchID)
}

func TestSQLiteGetSession_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetSession(context.Background(), "missing")
	assert.True(t, eris.Is(err, ErrSessionNotFound))
}

func TestSQLiteListSessions_FilterByCustomer(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveSession(ctx, completedState("P001"), nil)
	require.NoError(t, err)
	_, err = s.SaveSession(ctx, completedState("P002"), nil)
	require.NoError(t, err)

	recs, err := s.ListSessions(ctx, SessionFilter{CustomerID: "P001"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "P001", recs[0].CustomerID)

	recs, err = s.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSQLiteFeedback(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFeedback(ctx, sampleFeedback("f1", "P001", model.ResponseInterested)))
	require.NoError(t, s.SaveFeedback(ctx, sampleFeedback("f2", "P001", model.ResponseNotInterested)))
	require.NoError(t, s.SaveFeedback(ctx, sampleFeedback("f3", "P002", model.ResponseInterested)))

	n, err := s.CountFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	fbs, err := s.ListFeedback(ctx, FeedbackFilter{CustomerID: "P001"})
	require.NoError(t, err)
	assert.Len(t, fbs, 2)

	fbs, err = s.ListFeedback(ctx, FeedbackFilter{Response: model.ResponseInterested})
	require.NoError(t, err)
	assert.Len(t, fbs, 2)

	fbs, err = s.ListFeedback(ctx, FeedbackFilter{CustomerID: "P002", Response: model.ResponseInterested})
	require.NoError(t, err)
	require.Len(t, fbs, 1)
	assert.Equal(t, "f3", fbs[0].FeedbackID)
}

func TestSQLiteFeedback_DuplicateIDRejected(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFeedback(ctx, sampleFeedback("f1", "P001", model.ResponseInterested)))
	assert.Error(t, s.SaveFeedback(ctx, sampleFeedback("f1", "P001", model.ResponseInterested)))
}
