package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/model"
	"github.com/bh-assurance/agent-cli/internal/recommend"
)

var testNow = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func testRecords() *dataset.Store {
	return dataset.New(dataset.Bundle{
		Customers: []model.Customer{
			{
				ID:   "P001",
				Kind: model.KindIndividual,
				Individual: &model.Individual{
					FullName:      "Amine Ben Salah",
					BirthDate:     time.Date(1980, 4, 12, 0, 0, 0, 0, time.UTC),
					MaritalStatus: "married",
					Profession:    "Médecin",
					Location:      "Tunis",
				},
			},
			{
				ID:   "P002",
				Kind: model.KindIndividual,
				Individual: &model.Individual{
					FullName:   "Leila Trabelsi",
					Profession: "Enseignante",
				},
			},
		},
		Contracts: []model.Contract{
			{OwnerID: "P001", Number: "C-1", Branch: model.BranchAuto, InsuredCapital: 30000, PaymentStatus: model.PaymentPaid},
			{OwnerID: "P002", Number: "C-2", Branch: model.BranchLife, PaymentStatus: model.PaymentPaid},
			{OwnerID: "P002", Number: "C-3", Branch: model.BranchHealth, PaymentStatus: model.PaymentPaid},
			{OwnerID: "P002", Number: "C-4", Branch: model.BranchHome, PaymentStatus: model.PaymentPaid},
		},
		Claims: []model.Claim{
			{ContractNumber: "C-1", Number: "S-1", AmountCollected: 1500},
		},
	})
}

func newTestSession(opts ...Option) *Session {
	opts = append(opts, WithClock(func() time.Time { return testNow }))
	return NewSession(testRecords(), recommend.NewEngine(), opts...)
}

func TestInitialize(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	st := s.Initialize("P001")

	assert.Equal(t, "P001", st.CustomerID)
	assert.Equal(t, model.StepCustomerAnalysis, st.CurrentStep)
	assert.Equal(t, 0, s.Progress())
	assert.Len(t, s.History(), 1)
}

func TestExecute_FullRun(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	st, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)

	assert.Equal(t, model.StepCompleted, st.CurrentStep)
	assert.Empty(t, st.Error)
	assert.Equal(t, 100, s.Progress())

	require.NotNil(t, st.CustomerProfile)
	require.NotNil(t, st.CustomerProfile.RiskProfile.Age)
	assert.Equal(t, 46, *st.CustomerProfile.RiskProfile.Age)
	assert.Equal(t, model.PaymentExcellent, st.CustomerProfile.RiskProfile.PaymentHistory)

	// Auto-only coverage leaves life, health, and home gaps.
	require.Len(t, st.CustomerProfile.EquipmentGaps, 3)

	// Married doctor with no life/health/home coverage trips all four rules.
	require.Len(t, st.Recommendations, 4)
	assert.Equal(t, []model.Step{
		model.StepCustomerAnalysis,
		model.StepCustomerAnalysis,
		model.StepGapDetection,
		model.StepProductRecommendation,
		model.StepPitchGeneration,
		model.StepCompleted,
	}, historySteps(s))

	require.NotNil(t, st.CommercialPitch)
	assert.Equal(t, "P001", st.CommercialPitch.CustomerID)
	assert.Equal(t, model.UrgencyHigh, st.CommercialPitch.Urgency)
}

func TestExecute_FullyCoveredCustomer(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	st, err := s.Execute(context.Background(), "P002")
	require.NoError(t, err)

	assert.Empty(t, st.CustomerProfile.EquipmentGaps)
	// Zero recommendations is a completed stage, not a missing one.
	require.NotNil(t, st.Recommendations)
	assert.Empty(t, st.Recommendations)
	require.NotNil(t, st.CommercialPitch)
	assert.Equal(t, model.UrgencyLow, st.CommercialPitch.Urgency)
	assert.Contains(t, st.CommercialPitch.PersonalizedMessage, "semble complète")
}

func TestExecute_UnknownCustomer(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	st, err := s.Execute(context.Background(), "nope")

	require.Error(t, err)
	assert.True(t, eris.Is(err, dataset.ErrNotFound))
	assert.Equal(t, model.StepCompleted, st.CurrentStep)
	assert.NotEmpty(t, st.Error)
	// Terminal step still reports full progress; the error flags it.
	assert.Equal(t, 100, s.Progress())
}

func TestExecute_EarlierSnapshotsKeepGapFreeProfile(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	_, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)

	h := s.History()
	// Snapshot from customer analysis predates gap detection.
	assert.Empty(t, h[1].CustomerProfile.EquipmentGaps)
	assert.NotEmpty(t, h[2].CustomerProfile.EquipmentGaps)
}

type captureSink struct {
	saved []model.AgentFeedback
	err   error
}

func (c *captureSink) SaveFeedback(_ context.Context, fb model.AgentFeedback) error {
	if c.err != nil {
		return c.err
	}
	c.saved = append(c.saved, fb)
	return nil
}

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	s := newTestSession(WithFeedbackSink(sink))

	_, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)

	fb, err := s.SubmitFeedback(context.Background(), FeedbackInput{
		AgentNotes:       "Client réceptif",
		CustomerResponse: model.ResponseInterested,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, fb.FeedbackID)
	assert.Equal(t, "P001", fb.CustomerID)
	assert.Equal(t, testNow, fb.Timestamp)

	st, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, model.StepFeedbackCollection, st.CurrentStep)
	require.NotNil(t, st.Feedback)
	assert.Equal(t, st.CommercialPitch.PitchID, st.Feedback.PitchID)

	require.Len(t, sink.saved, 1)
	assert.Equal(t, fb.FeedbackID, sink.saved[0].FeedbackID)
}

func TestSubmitFeedback_InvalidResponse(t *testing.T) {
	t.Parallel()
	s := newTestSession()
	s.Initialize("P001")

	_, err := s.SubmitFeedback(context.Background(), FeedbackInput{CustomerResponse: "Maybe"})
	assert.True(t, eris.Is(err, ErrInvalidResponse))
}

func TestSubmitFeedback_NoSession(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	_, err := s.SubmitFeedback(context.Background(), FeedbackInput{CustomerResponse: model.ResponseInterested})
	assert.True(t, eris.Is(err, ErrNoSession))
}

func TestSubmitFeedback_SinkFailureKeepsFeedback(t *testing.T) {
	t.Parallel()
	s := newTestSession(WithFeedbackSink(&captureSink{err: eris.New("disk full")}))

	_, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)

	fb, err := s.SubmitFeedback(context.Background(), FeedbackInput{
		CustomerResponse: model.ResponseFollowUpLater,
	})
	require.Error(t, err)
	assert.NotEmpty(t, fb.FeedbackID)

	st, _ := s.Current()
	require.NotNil(t, st.Feedback)
}

func TestReset(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	_, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)
	s.Reset()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.History())
	assert.Equal(t, 0, s.Progress())
}

func TestSummary(t *testing.T) {
	t.Parallel()
	s := newTestSession()

	assert.Equal(t, "Aucun workflow en cours", s.Summary())

	_, err := s.Execute(context.Background(), "P001")
	require.NoError(t, err)

	sum := s.Summary()
	assert.Contains(t, sum, "Amine Ben Salah")
	assert.Contains(t, sum, "4 recommandations")
	assert.Contains(t, sum, "priorité High")
}

func historySteps(s *Session) []model.Step {
	var out []model.Step
	for _, st := range s.History() {
		out = append(out, st.CurrentStep)
	}
	return out
}
