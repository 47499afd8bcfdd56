package model

import "time"

// Claim is a declared loss on a contract. A claim belongs to exactly
// one contract; a customer's claims are derived by joining through the
// customer's contract numbers.
type Claim struct {
	ContractNumber     string    `json:"contract_number"`
	Number             string    `json:"number"`
	Nature             string    `json:"nature,omitempty"`
	Type               string    `json:"type,omitempty"`
	ResponsibilityRate float64   `json:"responsibility_rate"`
	OccurredAt         time.Time `json:"occurred_at,omitzero"`
	DeclaredAt         time.Time `json:"declared_at,omitzero"`
	OpenedAt           time.Time `json:"opened_at,omitzero"`
	Status             string    `json:"status,omitempty"`
	AmountCollected    float64   `json:"amount_collected"`
	AmountPending      float64   `json:"amount_pending"`
}
