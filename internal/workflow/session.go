// Package workflow drives the customer-to-pitch state machine. Each
// Session owns one customer run at a time and its snapshot history, so
// concurrent customers get one session each instead of sharing
// process-wide state.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/gaps"
	"github.com/bh-assurance/agent-cli/internal/model"
	"github.com/bh-assurance/agent-cli/internal/pitch"
	"github.com/bh-assurance/agent-cli/internal/profile"
	"github.com/bh-assurance/agent-cli/internal/recommend"
)

var (
	// ErrPrerequisiteMissing signals a stage started without the
	// output of an earlier stage. Terminal for the run.
	ErrPrerequisiteMissing = eris.New("workflow: prerequisite missing")

	// ErrNoSession signals an operation that needs an initialized
	// session.
	ErrNoSession = eris.New("workflow: no active session")

	// ErrInvalidResponse signals a customer response outside the
	// fixed enum.
	ErrInvalidResponse = eris.New("workflow: invalid customer response")
)

// Records is the read side the workflow pulls customer data from.
type Records interface {
	CustomerByID(id string) (model.Customer, error)
	ContractsByCustomer(id string) []model.Contract
	ClaimsByCustomer(id string) []model.Claim
	GuaranteesByCustomer(id string) []model.Guarantee
}

// FeedbackSink persists agent feedback outside the session.
type FeedbackSink interface {
	SaveFeedback(ctx context.Context, fb model.AgentFeedback) error
}

// Session is a single-customer workflow instance. It is not safe for
// concurrent use; callers serialize access or run one session per
// in-flight customer.
type Session struct {
	records Records
	engine  *recommend.Engine
	sink    FeedbackSink
	now     func() time.Time

	state   *model.AgentState
	history []model.AgentState
}

// Option configures a Session.
type Option func(*Session)

// WithFeedbackSink forwards submitted feedback to a persistence layer.
func WithFeedbackSink(s FeedbackSink) Option {
	return func(ws *Session) { ws.sink = s }
}

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(ws *Session) { ws.now = now }
}

// NewSession builds a workflow session over the given record source
// and recommendation engine.
func NewSession(records Records, engine *recommend.Engine, opts ...Option) *Session {
	s := &Session{records: records, engine: engine, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize starts a fresh run for the customer and records the
// initial snapshot. Any previous state for another customer is
// replaced; history is kept.
func (s *Session) Initialize(customerID string) model.AgentState {
	s.state = &model.AgentState{
		CustomerID:  customerID,
		CurrentStep: model.StepCustomerAnalysis,
	}
	s.snapshot()
	return *s.state
}

// Execute runs the four stages in order and marks the session
// completed. On any failure the error is recorded on the state, the
// step is forced to completed, and the error is returned. Failed runs
// are terminal; call Reset before reuse.
func (s *Session) Execute(ctx context.Context, customerID string) (model.AgentState, error) {
	s.Initialize(customerID)

	stages := []func(context.Context) error{
		s.runCustomerAnalysis,
		s.runGapDetection,
		s.runProductRecommendation,
		s.runPitchGeneration,
	}
	for _, stage := range stages {
		if err := stage(ctx); err != nil {
			return s.fail(err), err
		}
	}

	s.transition(model.StepCompleted, func(st *model.AgentState) {})
	zap.L().Info("workflow: completed",
		zap.String("customer_id", customerID),
		zap.Int("recommendations", len(s.state.Recommendations)))
	return *s.state, nil
}

func (s *Session) runCustomerAnalysis(ctx context.Context) error {
	customer, err := s.records.CustomerByID(s.state.CustomerID)
	if err != nil {
		return err
	}
	contracts := s.records.ContractsByCustomer(customer.ID)
	claims := s.records.ClaimsByCustomer(customer.ID)
	guarantees := s.records.GuaranteesByCustomer(customer.ID)

	rp := profile.Build(customer, contracts, claims, s.now())
	s.transition(model.StepCustomerAnalysis, func(st *model.AgentState) {
		st.CustomerProfile = &model.CustomerProfile{
			Customer:    customer,
			Contracts:   contracts,
			Guarantees:  guarantees,
			Claims:      claims,
			RiskProfile: rp,
		}
	})
	return nil
}

func (s *Session) runGapDetection(_ context.Context) error {
	if s.state.CustomerProfile == nil {
		return eris.Wrap(ErrPrerequisiteMissing, "gap detection needs a customer profile")
	}
	// Copy the profile so earlier snapshots keep their gap-free view.
	cp := *s.state.CustomerProfile
	cp.EquipmentGaps = gaps.Detect(cp.Customer, cp.Contracts)
	s.transition(model.StepGapDetection, func(st *model.AgentState) {
		st.CustomerProfile = &cp
	})
	return nil
}

func (s *Session) runProductRecommendation(ctx context.Context) error {
	if s.state.CustomerProfile == nil {
		return eris.Wrap(ErrPrerequisiteMissing, "recommendation needs a customer profile")
	}
	cp := s.state.CustomerProfile
	recs := s.engine.Generate(ctx, cp.RiskProfile, cp.Contracts)
	s.transition(model.StepProductRecommendation, func(st *model.AgentState) {
		st.Recommendations = recs
	})
	return nil
}

func (s *Session) runPitchGeneration(_ context.Context) error {
	// The recommendation stage always stores a non-nil slice, so nil
	// means the stage never ran. A zero-result run is valid and yields
	// the coverage-complete pitch.
	if s.state.CustomerProfile == nil || s.state.Recommendations == nil {
		return eris.Wrap(ErrPrerequisiteMissing, "pitch generation needs a profile and recommendations")
	}
	p := pitch.Compose(*s.state.CustomerProfile, s.state.Recommendations)
	s.transition(model.StepPitchGeneration, func(st *model.AgentState) {
		st.CommercialPitch = &p
	})
	return nil
}

// FeedbackInput is what an agent files after delivering the pitch.
type FeedbackInput struct {
	AgentNotes             string
	CustomerResponse       model.CustomerResponse
	ImprovementSuggestions string
}

// SubmitFeedback attaches an agent feedback record to the current
// state, moves the step to feedback collection, and hands the record
// to the configured sink. The sink error, if any, is returned but the
// feedback stays attached to the session.
func (s *Session) SubmitFeedback(ctx context.Context, in FeedbackInput) (model.AgentFeedback, error) {
	if s.state == nil {
		return model.AgentFeedback{}, ErrNoSession
	}
	if !model.ValidCustomerResponse(in.CustomerResponse) {
		return model.AgentFeedback{}, eris.Wrapf(ErrInvalidResponse, "%q", in.CustomerResponse)
	}

	fb := model.AgentFeedback{
		FeedbackID:             uuid.NewString(),
		CustomerID:             s.state.CustomerID,
		AgentNotes:             in.AgentNotes,
		CustomerResponse:       in.CustomerResponse,
		ImprovementSuggestions: in.ImprovementSuggestions,
		Timestamp:              s.now().UTC(),
	}
	if s.state.CommercialPitch != nil {
		fb.PitchID = s.state.CommercialPitch.PitchID
	}

	s.transition(model.StepFeedbackCollection, func(st *model.AgentState) {
		st.Feedback = &fb
	})

	if s.sink != nil {
		if err := s.sink.SaveFeedback(ctx, fb); err != nil {
			return fb, eris.Wrap(err, "workflow: persist feedback")
		}
	}
	return fb, nil
}

// Current returns the latest state, if any.
func (s *Session) Current() (model.AgentState, bool) {
	if s.state == nil {
		return model.AgentState{}, false
	}
	return *s.state, true
}

// History returns all snapshots in transition order.
func (s *Session) History() []model.AgentState {
	return s.history
}

// Progress reports completion as 0..100 based on the current step's
// position in the fixed order.
func (s *Session) Progress() int {
	if s.state == nil {
		return 0
	}
	return s.state.CurrentStep.Progress()
}

// Reset clears state and history unconditionally.
func (s *Session) Reset() {
	s.state = nil
	s.history = nil
}

// Summary renders a one-line agent-facing digest of the session.
func (s *Session) Summary() string {
	if s.state == nil {
		return "Aucun workflow en cours"
	}
	name := "Client inconnu"
	if s.state.CustomerProfile != nil {
		name = s.state.CustomerProfile.Customer.DisplayName()
	}
	urgency := "Non définie"
	if s.state.CommercialPitch != nil {
		urgency = string(s.state.CommercialPitch.Urgency)
	}
	return fmt.Sprintf("Workflow pour %s: %d recommandations générées, priorité %s, étape %s",
		name, len(s.state.Recommendations), urgency, s.state.CurrentStep.Description())
}

// fail records the error, forces the terminal step, and snapshots.
func (s *Session) fail(err error) model.AgentState {
	zap.L().Warn("workflow: run failed",
		zap.String("customer_id", s.state.CustomerID),
		zap.String("step", string(s.state.CurrentStep)),
		zap.Error(err))
	s.transition(model.StepCompleted, func(st *model.AgentState) {
		st.Error = err.Error()
	})
	return *s.state
}

// transition applies a mutation under the given step and appends an
// immutable snapshot to the history.
func (s *Session) transition(step model.Step, apply func(*model.AgentState)) {
	s.state.CurrentStep = step
	apply(s.state)
	s.snapshot()
}

func (s *Session) snapshot() {
	s.history = append(s.history, *s.state)
}
