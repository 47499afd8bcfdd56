package dataset

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/model"
)

func testBundle() Bundle {
	return Bundle{
		Customers: []model.Customer{
			{
				ID:   "P001",
				Kind: model.KindIndividual,
				Individual: &model.Individual{
					FullName:   "Amine Ben Salah",
					BirthDate:  time.Date(1980, 4, 12, 0, 0, 0, 0, time.UTC),
					Profession: "Médecin",
					Sector:     "Santé",
					Location:   "Tunis",
				},
			},
			{
				ID:   "P002",
				Kind: model.KindIndividual,
				Individual: &model.Individual{
					FullName:   "Leila Trabelsi",
					BirthDate:  time.Date(1995, 1, 2, 0, 0, 0, 0, time.UTC),
					Profession: "Enseignante",
					Location:   "Sousse",
				},
			},
			{
				ID:   "M001",
				Kind: model.KindOrganization,
				Organization: &model.Organization{
					RegisteredName: "STE EL AMEN",
					Sector:         "Distribution",
					Location:       "Sfax",
				},
			},
		},
		Contracts: []model.Contract{
			{OwnerID: "P001", Number: "C-1", Branch: model.BranchAuto, InsuredCapital: 30000},
			{OwnerID: "P001", Number: "C-2", Branch: model.BranchLife, InsuredCapital: 100000},
			{OwnerID: "M001", Number: "C-3", Branch: model.BranchHealth},
		},
		Claims: []model.Claim{
			{ContractNumber: "C-1", Number: "S-1", AmountCollected: 1500},
			{ContractNumber: "C-3", Number: "S-2", AmountCollected: 800},
		},
		Guarantees: []model.Guarantee{
			{ContractNumber: "C-2", Code: "G01", Label: "Capital décès", InsuredCapital: 100000},
		},
	}
}

func TestCustomerByID(t *testing.T) {
	t.Parallel()
	s := New(testBundle())

	c, err := s.CustomerByID("P001")
	require.NoError(t, err)
	assert.Equal(t, "Amine Ben Salah", c.DisplayName())

	c, err = s.CustomerByID("M001")
	require.NoError(t, err)
	assert.Equal(t, model.KindOrganization, c.Kind)
}

func TestCustomerByID_NotFound(t *testing.T) {
	t.Parallel()
	s := New(testBundle())

	_, err := s.CustomerByID("nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestContractsByCustomer(t *testing.T) {
	t.Parallel()
	s := New(testBundle())

	assert.Len(t, s.ContractsByCustomer("P001"), 2)
	assert.Len(t, s.ContractsByCustomer("P002"), 0)
}

func TestClaimsByCustomer_JoinsThroughContracts(t *testing.T) {
	t.Parallel()
	s := New(testBundle())

	claims := s.ClaimsByCustomer("P001")
	require.Len(t, claims, 1)
	assert.Equal(t, "S-1", claims[0].Number)

	// Organization claims come through its own contracts.
	claims = s.ClaimsByCustomer("M001")
	require.Len(t, claims, 1)
	assert.Equal(t, "S-2", claims[0].Number)

	assert.Empty(t, s.ClaimsByCustomer("P002"))
}

func TestGuaranteesByCustomer(t *testing.T) {
	t.Parallel()
	s := New(testBundle())

	gs := s.GuaranteesByCustomer("P001")
	require.Len(t, gs, 1)
	assert.Equal(t, "G01", gs[0].Code)
	assert.Empty(t, s.GuaranteesByCustomer("M001"))
}

func TestDuplicateCustomerID_FirstWins(t *testing.T) {
	t.Parallel()
	b := testBundle()
	b.Customers = append(b.Customers, model.Customer{
		ID:         "P001",
		Kind:       model.KindIndividual,
		Individual: &model.Individual{FullName: "Impostor"},
	})
	s := New(b)

	assert.Equal(t, 3, s.Len())
	c, err := s.CustomerByID("P001")
	require.NoError(t, err)
	assert.Equal(t, "Amine Ben Salah", c.DisplayName())
}

func TestEmptyStore_AllLookupsNotFound(t *testing.T) {
	t.Parallel()
	s := Empty()

	_, err := s.CustomerByID("P001")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.Empty(t, s.ContractsByCustomer("P001"))
	assert.Empty(t, s.ClaimsByCustomer("P001"))
	assert.Equal(t, 0, s.Len())
}

func TestSearch(t *testing.T) {
	t.Parallel()
	s := New(testBundle())
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("by profession substring", func(t *testing.T) {
		t.Parallel()
		got := s.Search(Criteria{Profession: "médecin", Now: now})
		require.Len(t, got, 1)
		assert.Equal(t, "P001", got[0].ID)
	})

	t.Run("profession never matches organizations", func(t *testing.T) {
		t.Parallel()
		got := s.Search(Criteria{Profession: "commerce", Now: now})
		assert.Empty(t, got)
	})

	t.Run("by location", func(t *testing.T) {
		t.Parallel()
		got := s.Search(Criteria{Location: "sfax", Now: now})
		require.Len(t, got, 1)
		assert.Equal(t, "M001", got[0].ID)
	})

	t.Run("by age range", func(t *testing.T) {
		t.Parallel()
		got := s.Search(Criteria{AgeMin: 40, AgeMax: 50, Now: now})
		// P001 is 46; P002 is 31; M001 has no birth date and passes through.
		require.Len(t, got, 2)
		assert.Equal(t, "P001", got[0].ID)
		assert.Equal(t, "M001", got[1].ID)
	})

	t.Run("combined criteria", func(t *testing.T) {
		t.Parallel()
		got := s.Search(Criteria{Sector: "santé", Location: "tunis", Now: now})
		require.Len(t, got, 1)
		assert.Equal(t, "P001", got[0].ID)
	})

	t.Run("no criteria returns all", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, s.Search(Criteria{Now: now}), 3)
	})
}
