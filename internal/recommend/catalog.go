package recommend

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// Rule keys into the catalog. Each business rule contributes at most
// one recommendation, looked up by its key.
const (
	KeyRetirementSavings = "retirement-savings"
	KeyTemporaryDeath    = "temporary-death"
	KeyGroupHealth       = "group-health"
	KeyHomeMultirisk     = "home-multirisk"
)

// Entry is the static commercial data attached to a recommendation.
// Premiums and benefit texts are fixed per product, not computed from
// the customer's risk.
type Entry struct {
	Product          model.ProductRef `yaml:"product"`
	Priority         int              `yaml:"priority"`
	Reasoning        string           `yaml:"reasoning"`
	TargetProfile    string           `yaml:"target_profile"`
	EstimatedPremium float64          `yaml:"estimated_premium"`
	ExpectedBenefit  string           `yaml:"expected_benefit"`
}

// Catalog maps rule keys to their product entries.
type Catalog map[string]Entry

// DefaultCatalog returns the built-in product table.
func DefaultCatalog() Catalog {
	return Catalog{
		KeyRetirementSavings: {
			Product: model.ProductRef{
				Branch:    model.BranchLife,
				SubBranch: "CAPITALISATION",
				Product:   "ASSURANCE VIE COMPLEMENT RETRAITE - HORIZON",
			},
			Priority:         1,
			Reasoning:        "Profil professionnel à revenus élevés - Constitution retraite prioritaire",
			TargetProfile:    "Professions libérales/cadres supérieurs",
			EstimatedPremium: 2400,
			ExpectedBenefit:  "Constitution capital retraite avec avantages fiscaux",
		},
		KeyTemporaryDeath: {
			Product: model.ProductRef{
				Branch:    model.BranchLife,
				SubBranch: "DECES",
				Product:   "TEMPORAIRE DECES",
			},
			Priority:         2,
			Reasoning:        "Protection familiale essentielle pour personne mariée",
			TargetProfile:    "Chefs de famille",
			EstimatedPremium: 1200,
			ExpectedBenefit:  "Sécurité financière famille en cas de décès",
		},
		KeyGroupHealth: {
			Product: model.ProductRef{
				Branch:    model.BranchHealth,
				SubBranch: "SANTE",
				Product:   "ASSURANCE GROUPE MALADIE",
			},
			Priority:         1,
			Reasoning:        "Couverture santé manquante - Protection médicale essentielle",
			TargetProfile:    "Tous profils",
			EstimatedPremium: 1800,
			ExpectedBenefit:  "Remboursement frais médicaux jusqu'à 200% CNAM",
		},
		KeyHomeMultirisk: {
			Product: model.ProductRef{
				Branch:    model.BranchHome,
				SubBranch: "HABITATION",
				Product:   "MULTIRISQUE HABITATION",
			},
			Priority:         3,
			Reasoning:        "Protection du patrimoine immobilier recommandée",
			TargetProfile:    "Propriétaires/locataires",
			EstimatedPremium: 900,
			ExpectedBenefit:  "Protection logement et biens contre tous risques",
		},
	}
}

type catalogFile struct {
	Products map[string]catalogEntry `yaml:"products"`
}

type catalogEntry struct {
	Branch           string  `yaml:"branch"`
	SubBranch        string  `yaml:"sub_branch"`
	Product          string  `yaml:"product"`
	Priority         int     `yaml:"priority"`
	Reasoning        string  `yaml:"reasoning"`
	TargetProfile    string  `yaml:"target_profile"`
	EstimatedPremium float64 `yaml:"estimated_premium"`
	ExpectedBenefit  string  `yaml:"expected_benefit"`
}

// LoadCatalog reads a YAML product table and overlays it on the
// built-in defaults. Keys not present in the file keep their default
// entries, so a file can override a single premium without restating
// the whole catalog.
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: read catalog %s", path)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrapf(err, "recommend: parse catalog %s", path)
	}

	cat := DefaultCatalog()
	for key, e := range f.Products {
		cat[key] = Entry{
			Product: model.ProductRef{
				Branch:    e.Branch,
				SubBranch: e.SubBranch,
				Product:   e.Product,
			},
			Priority:         e.Priority,
			Reasoning:        e.Reasoning,
			TargetProfile:    e.TargetProfile,
			EstimatedPremium: e.EstimatedPremium,
			ExpectedBenefit:  e.ExpectedBenefit,
		}
	}
	return cat, nil
}
