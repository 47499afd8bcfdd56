// Package dataset holds the read-only customer/contract/claim records
// loaded once at process start, with indexed lookups and relationship
// joins. Nothing mutates the store after New.
package dataset

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// ErrNotFound is returned when a customer identifier has no matching
// record. Callers must treat it as terminal for a workflow run, not as
// a retryable condition.
var ErrNotFound = eris.New("dataset: customer not found")

// Bundle is the raw record set a store is built from.
type Bundle struct {
	Customers  []model.Customer
	Contracts  []model.Contract
	Claims     []model.Claim
	Guarantees []model.Guarantee
}

// Store answers customer lookups and relationship queries over a
// bulk-loaded record set.
type Store struct {
	customers        []model.Customer
	byID             map[string]int
	contractsByOwner map[string][]model.Contract
	claimsByContract map[string][]model.Claim
	guaranteesByNum  map[string][]model.Guarantee
}

// New builds an indexed store from a record bundle. Later duplicates of
// a customer id are ignored; the first record wins.
func New(b Bundle) *Store {
	s := &Store{
		byID:             make(map[string]int, len(b.Customers)),
		contractsByOwner: make(map[string][]model.Contract),
		claimsByContract: make(map[string][]model.Claim),
		guaranteesByNum:  make(map[string][]model.Guarantee),
	}
	for _, c := range b.Customers {
		if _, dup := s.byID[c.ID]; dup {
			continue
		}
		s.byID[c.ID] = len(s.customers)
		s.customers = append(s.customers, c)
	}
	for _, ct := range b.Contracts {
		s.contractsByOwner[ct.OwnerID] = append(s.contractsByOwner[ct.OwnerID], ct)
	}
	for _, cl := range b.Claims {
		s.claimsByContract[cl.ContractNumber] = append(s.claimsByContract[cl.ContractNumber], cl)
	}
	for _, g := range b.Guarantees {
		s.guaranteesByNum[g.ContractNumber] = append(s.guaranteesByNum[g.ContractNumber], g)
	}
	return s
}

// Empty returns a store with no records. Every lookup behaves as
// not-found, which is the contract after a failed bulk load.
func Empty() *Store {
	return New(Bundle{})
}

// Len returns the number of customers in the store.
func (s *Store) Len() int {
	return len(s.customers)
}

// CustomerByID returns the customer with the given identifier, or
// ErrNotFound.
func (s *Store) CustomerByID(id string) (model.Customer, error) {
	idx, ok := s.byID[id]
	if !ok {
		return model.Customer{}, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return s.customers[idx], nil
}

// ContractsByCustomer returns all contracts owned by the customer.
func (s *Store) ContractsByCustomer(id string) []model.Contract {
	return s.contractsByOwner[id]
}

// ClaimsByCustomer returns the customer's claims, joined through the
// customer's contract numbers.
func (s *Store) ClaimsByCustomer(id string) []model.Claim {
	var claims []model.Claim
	for _, ct := range s.contractsByOwner[id] {
		claims = append(claims, s.claimsByContract[ct.Number]...)
	}
	return claims
}

// GuaranteesByContract returns the guarantee lines of one contract.
func (s *Store) GuaranteesByContract(number string) []model.Guarantee {
	return s.guaranteesByNum[number]
}

// GuaranteesByCustomer returns the guarantee lines across all of the
// customer's contracts.
func (s *Store) GuaranteesByCustomer(id string) []model.Guarantee {
	var gs []model.Guarantee
	for _, ct := range s.contractsByOwner[id] {
		gs = append(gs, s.guaranteesByNum[ct.Number]...)
	}
	return gs
}

// Customers returns all customers in load order. The returned slice is
// shared; callers must not modify it.
func (s *Store) Customers() []model.Customer {
	return s.customers
}

// Criteria filters customers in Search. String fields match as
// case-insensitive substrings; zero values are ignored. AgeRange
// applies only to individuals with a birth date.
type Criteria struct {
	Profession string
	Sector     string
	Location   string
	AgeMin     int
	AgeMax     int
	Now        time.Time // defaults to time.Now()
}

// Search returns customers matching all set criteria.
func (s *Store) Search(c Criteria) []model.Customer {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	var out []model.Customer
	for _, cust := range s.customers {
		if c.Profession != "" {
			if cust.Kind != model.KindIndividual || !containsFold(cust.Profession(), c.Profession) {
				continue
			}
		}
		if c.Sector != "" && !containsFold(cust.Sector(), c.Sector) {
			continue
		}
		if c.Location != "" && !containsFold(cust.Location(), c.Location) {
			continue
		}
		if c.AgeMin > 0 || c.AgeMax > 0 {
			if birth, ok := cust.BirthDate(); ok {
				age := now.Year() - birth.Year()
				if c.AgeMin > 0 && age < c.AgeMin {
					continue
				}
				if c.AgeMax > 0 && age > c.AgeMax {
					continue
				}
			}
		}
		out = append(out, cust)
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
