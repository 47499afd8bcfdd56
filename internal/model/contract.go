package model

import "time"

// PaymentStatus is the payment state of a contract.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Coverage branch labels used by the gap detector and recommendation
// rules. Branch values on contracts are free-form labels; these are the
// ones the fixed checklist cares about.
const (
	BranchLife   = "life"
	BranchHealth = "health"
	BranchHome   = "home"
	BranchAuto   = "auto"
)

// Contract is an in-force or historical insurance contract. Contracts
// are immutable once loaded; no component writes them.
type Contract struct {
	OwnerID        string        `json:"owner_id"`
	Number         string        `json:"number"`
	Product        string        `json:"product"`
	Branch         string        `json:"branch"`
	EffectiveDate  time.Time     `json:"effective_date,omitzero"`
	ExpiryDate     time.Time     `json:"expiry_date,omitzero"`
	NextDueDate    time.Time     `json:"next_due_date,omitzero"`
	Status         string        `json:"status,omitempty"`
	InsuredCapital float64       `json:"insured_capital"`
	PremiumsPaid   float64       `json:"premiums_paid"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
}

// Guarantee is a per-contract guarantee line.
type Guarantee struct {
	ContractNumber string  `json:"contract_number"`
	Code           string  `json:"code"`
	Label          string  `json:"label"`
	InsuredCapital float64 `json:"insured_capital"`
}
