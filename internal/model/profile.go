package model

// PaymentGrade grades a customer's premium payment history.
type PaymentGrade string

const (
	PaymentExcellent PaymentGrade = "Excellent"
	PaymentGood      PaymentGrade = "Good"
	PaymentAverage   PaymentGrade = "Average"
	PaymentPoor      PaymentGrade = "Poor"
)

// RiskLevel classifies a customer's claims history.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ClaimsSummary aggregates a customer's claims.
type ClaimsSummary struct {
	TotalClaims   int       `json:"total_claims"`
	TotalAmount   float64   `json:"total_amount"`
	AverageAmount float64   `json:"average_amount"`
	RiskLevel     RiskLevel `json:"risk_level"`
}

// RiskProfile is the derived summary of a customer's situation. It is
// computed on demand and never persisted.
type RiskProfile struct {
	Age               *int          `json:"age,omitempty"`
	Profession        string        `json:"profession,omitempty"`
	// HasProfession is set for individuals only; an organization's
	// activity label fills Profession but does not count.
	HasProfession     bool          `json:"has_profession,omitempty"`
	Sector            string        `json:"sector,omitempty"`
	FamilyStatus      string        `json:"family_status,omitempty"`
	Location          string        `json:"location,omitempty"`
	TotalInsuredValue float64       `json:"total_insured_value"`
	PaymentHistory    PaymentGrade  `json:"payment_history"`
	Claims            ClaimsSummary `json:"claims"`
}
