// Package gaps compares a customer's existing coverage branches
// against the expected branch checklist and reports what is missing.
package gaps

import (
	"strings"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// Detect walks a fixed checklist of expected coverage branches and
// emits one gap per missing branch, in checklist order. An empty
// result means full coverage. Pure function, never fails.
func Detect(customer model.Customer, contracts []model.Contract) []model.EquipmentGap {
	branches := make(map[string]bool, len(contracts))
	for _, ct := range contracts {
		branches[ct.Branch] = true
	}

	var out []model.EquipmentGap

	if !branches[model.BranchLife] {
		out = append(out, model.EquipmentGap{
			Branch:          model.BranchLife,
			MissingProducts: []string{"TEMPORAIRE DECES", "ASSURANCE VIE COMPLEMENT RETRAITE"},
			Priority:        model.GapHigh,
			Reasoning:       "Aucune couverture vie détectée - Protection familiale et épargne retraite recommandées",
		})
	}

	if !hasHealth(contracts) {
		out = append(out, model.EquipmentGap{
			Branch:          model.BranchHealth,
			MissingProducts: []string{"ASSURANCE GROUPE MALADIE"},
			Priority:        model.GapHigh,
			Reasoning:       "Couverture santé manquante - Protection médicale essentielle",
		})
	}

	if !branches[model.BranchHome] && customer.HasProfession() {
		out = append(out, model.EquipmentGap{
			Branch:          model.BranchHome,
			MissingProducts: []string{"MULTIRISQUE HABITATION"},
			Priority:        model.GapMedium,
			Reasoning:       "Protection du patrimoine immobilier recommandée",
		})
	}

	return out
}

// hasHealth is true when any branch equals or contains "health".
// Some portfolios file health coverage under composite branch labels.
func hasHealth(contracts []model.Contract) bool {
	for _, ct := range contracts {
		if strings.Contains(ct.Branch, model.BranchHealth) {
			return true
		}
	}
	return false
}
