package model

import "time"

// Step is one phase of the customer-to-pitch workflow.
type Step string

const (
	StepCustomerAnalysis      Step = "customer_analysis"
	StepGapDetection          Step = "gap_detection"
	StepProductRecommendation Step = "product_recommendation"
	StepPitchGeneration       Step = "pitch_generation"
	StepFeedbackCollection    Step = "feedback_collection"
	StepCompleted             Step = "completed"
)

// stepOrder is the fixed progression used for progress reporting.
var stepOrder = []Step{
	StepCustomerAnalysis,
	StepGapDetection,
	StepProductRecommendation,
	StepPitchGeneration,
	StepFeedbackCollection,
	StepCompleted,
}

// Index returns the step's position in the fixed order, or -1 for an
// unknown step.
func (s Step) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Progress scales the step's position to a 0..100 percentage.
func (s Step) Progress() int {
	idx := s.Index()
	if idx < 0 {
		return 0
	}
	return idx * 100 / (len(stepOrder) - 1)
}

// Description returns the agent-facing label for a step.
func (s Step) Description() string {
	switch s {
	case StepCustomerAnalysis:
		return "Analyse du profil client et des contrats existants"
	case StepGapDetection:
		return "Détection des lacunes dans la couverture"
	case StepProductRecommendation:
		return "Génération des recommandations produits"
	case StepPitchGeneration:
		return "Création du pitch commercial personnalisé"
	case StepFeedbackCollection:
		return "Collecte des retours agent"
	case StepCompleted:
		return "Processus terminé"
	default:
		return string(s)
	}
}

// CustomerProfile bundles a customer's records with the derived risk
// profile and coverage gaps.
type CustomerProfile struct {
	Customer      Customer       `json:"customer"`
	Contracts     []Contract     `json:"contracts"`
	Guarantees    []Guarantee    `json:"guarantees"`
	Claims        []Claim        `json:"claims"`
	RiskProfile   RiskProfile    `json:"risk_profile"`
	EquipmentGaps []EquipmentGap `json:"equipment_gaps"`
}

// AgentState is one workflow snapshot. Each stage transition appends a
// new snapshot to the session history; snapshots are never rewritten.
type AgentState struct {
	CustomerID      string                  `json:"customer_id"`
	CustomerProfile *CustomerProfile        `json:"customer_profile,omitempty"`
	Recommendations []ProductRecommendation `json:"recommendations,omitempty"`
	CommercialPitch *CommercialPitch        `json:"commercial_pitch,omitempty"`
	Feedback        *AgentFeedback          `json:"feedback,omitempty"`
	CurrentStep     Step                    `json:"current_step"`
	Error           string                  `json:"error,omitempty"`
}

// CustomerResponse is the fixed set of outcomes an agent can report.
type CustomerResponse string

const (
	ResponseInterested    CustomerResponse = "Interested"
	ResponseNotInterested CustomerResponse = "Not Interested"
	ResponseNeedMoreInfo  CustomerResponse = "Need More Info"
	ResponseFollowUpLater CustomerResponse = "Follow Up Later"
)

// ValidCustomerResponse reports whether r is one of the fixed enum
// values.
func ValidCustomerResponse(r CustomerResponse) bool {
	switch r {
	case ResponseInterested, ResponseNotInterested, ResponseNeedMoreInfo, ResponseFollowUpLater:
		return true
	}
	return false
}

// AgentFeedback is the record an agent files after delivering a pitch.
type AgentFeedback struct {
	FeedbackID             string           `json:"feedback_id"`
	CustomerID             string           `json:"customer_id"`
	PitchID                string           `json:"pitch_id"`
	AgentNotes             string           `json:"agent_notes"`
	CustomerResponse       CustomerResponse `json:"customer_response"`
	ImprovementSuggestions string           `json:"improvement_suggestions,omitempty"`
	Timestamp              time.Time        `json:"timestamp"`
}
