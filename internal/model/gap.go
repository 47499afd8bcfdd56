package model

// GapPriority ranks a coverage gap. Independent of the numeric
// recommendation priority scale.
type GapPriority string

const (
	GapHigh   GapPriority = "High"
	GapMedium GapPriority = "Medium"
	GapLow    GapPriority = "Low"
)

// EquipmentGap is a coverage branch the customer lacks, per the fixed
// expected-coverage checklist. An empty gap list means full coverage.
type EquipmentGap struct {
	Branch          string      `json:"branch"`
	MissingProducts []string    `json:"missing_products"`
	Priority        GapPriority `json:"priority"`
	Reasoning       string      `json:"reasoning"`
}
