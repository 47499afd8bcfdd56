package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/model"
)

func withProfession() model.Customer {
	return model.Customer{
		ID:         "P001",
		Kind:       model.KindIndividual,
		Individual: &model.Individual{FullName: "Amine Ben Salah", Profession: "Médecin"},
	}
}

func organization() model.Customer {
	return model.Customer{
		ID:           "M001",
		Kind:         model.KindOrganization,
		Organization: &model.Organization{RegisteredName: "STE EL AMEN", Activity: "Commerce"},
	}
}

func contracts(branches ...string) []model.Contract {
	var cs []model.Contract
	for _, b := range branches {
		cs = append(cs, model.Contract{Branch: b})
	}
	return cs
}

func TestDetect_NoCoverage(t *testing.T) {
	t.Parallel()
	got := Detect(withProfession(), nil)

	require.Len(t, got, 3)
	assert.Equal(t, model.BranchLife, got[0].Branch)
	assert.Equal(t, model.GapHigh, got[0].Priority)
	assert.Equal(t, model.BranchHealth, got[1].Branch)
	assert.Equal(t, model.GapHigh, got[1].Priority)
	assert.Equal(t, model.BranchHome, got[2].Branch)
	assert.Equal(t, model.GapMedium, got[2].Priority)
}

func TestDetect_FullCoverage(t *testing.T) {
	t.Parallel()
	got := Detect(withProfession(), contracts(model.BranchLife, model.BranchHealth, model.BranchHome))
	assert.Empty(t, got)
}

func TestDetect_HealthSubstringCounts(t *testing.T) {
	t.Parallel()
	got := Detect(organization(), contracts(model.BranchLife, "group health", model.BranchHome))
	assert.Empty(t, got)
}

func TestDetect_HomeGapNeedsProfession(t *testing.T) {
	t.Parallel()

	// Organizations have no profession label so no home gap is raised.
	got := Detect(organization(), contracts(model.BranchLife, model.BranchHealth))
	assert.Empty(t, got)

	// An individual without a profession is treated the same way.
	blank := withProfession()
	blank.Individual.Profession = ""
	got = Detect(blank, contracts(model.BranchLife, model.BranchHealth))
	assert.Empty(t, got)
}

func TestDetect_LifeOnlyMissing(t *testing.T) {
	t.Parallel()
	got := Detect(withProfession(), contracts(model.BranchHealth, model.BranchHome))

	require.Len(t, got, 1)
	assert.Equal(t, model.BranchLife, got[0].Branch)
	assert.Equal(t, []string{"TEMPORAIRE DECES", "ASSURANCE VIE COMPLEMENT RETRAITE"}, got[0].MissingProducts)
}
