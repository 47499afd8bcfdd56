// Package profile derives a customer's risk summary from their
// records. Build is a pure function over its inputs and always
// produces a profile, filling defaults where optional fields are
// absent.
package profile

import (
	"time"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// Build computes the risk profile for a customer from their contracts
// and claims. Organizations have no birth date, so age stays nil. The
// reference time anchors age computation.
func Build(customer model.Customer, contracts []model.Contract, claims []model.Claim, now time.Time) model.RiskProfile {
	p := model.RiskProfile{
		Profession:    customer.Profession(),
		HasProfession: customer.HasProfession(),
		Sector:        customer.Sector(),
		Location:      customer.Location(),
	}

	if birth, ok := customer.BirthDate(); ok {
		age := now.Year() - birth.Year()
		p.Age = &age
	}
	if status, ok := customer.MaritalStatus(); ok {
		p.FamilyStatus = status
	}

	for _, ct := range contracts {
		p.TotalInsuredValue += ct.InsuredCapital
	}
	p.PaymentHistory = paymentGrade(contracts)
	p.Claims = summarizeClaims(claims)
	return p
}

// paymentGrade maps the paid-contract ratio to a grade. A customer
// with no contracts grades Good by convention.
func paymentGrade(contracts []model.Contract) model.PaymentGrade {
	if len(contracts) == 0 {
		return model.PaymentGood
	}
	paid := 0
	for _, ct := range contracts {
		if ct.PaymentStatus == model.PaymentPaid {
			paid++
		}
	}
	ratio := float64(paid) / float64(len(contracts))
	switch {
	case ratio >= 0.8:
		return model.PaymentExcellent
	case ratio >= 0.6:
		return model.PaymentGood
	case ratio >= 0.4:
		return model.PaymentAverage
	default:
		return model.PaymentPoor
	}
}

func summarizeClaims(claims []model.Claim) model.ClaimsSummary {
	s := model.ClaimsSummary{TotalClaims: len(claims)}
	for _, cl := range claims {
		s.TotalAmount += cl.AmountCollected
	}
	if s.TotalClaims > 0 {
		s.AverageAmount = s.TotalAmount / float64(s.TotalClaims)
	}
	switch {
	case s.TotalClaims > 3:
		s.RiskLevel = model.RiskHigh
	case s.TotalClaims > 1:
		s.RiskLevel = model.RiskMedium
	default:
		s.RiskLevel = model.RiskLow
	}
	return s
}
