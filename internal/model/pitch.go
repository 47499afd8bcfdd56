package model

// Channel is the outbound contact channel chosen for a pitch.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelPhone    Channel = "phone"
	ChannelWhatsApp Channel = "whatsapp"
)

// UrgencyLevel indicates how soon the agent should contact the
// customer, derived from the count of high-priority recommendations.
type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "High"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyLow    UrgencyLevel = "Low"
)

// CommercialPitch is the composed outbound message and its supporting
// sales metadata.
type CommercialPitch struct {
	PitchID             string                  `json:"pitch_id"`
	CustomerID          string                  `json:"customer_id"`
	Recommendations     []ProductRecommendation `json:"recommendations"`
	PersonalizedMessage string                  `json:"personalized_message"`
	SalesArguments      []string                `json:"sales_arguments"`
	Channel             Channel                 `json:"channel"`
	Urgency             UrgencyLevel            `json:"urgency"`
	FollowUpStrategy    string                  `json:"follow_up_strategy"`
}
