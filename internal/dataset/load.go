package dataset

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// fileIndividual and fileOrganization flatten the tagged union for the
// bulk dataset file: each record carries its id next to its fields.
type fileIndividual struct {
	ID string `json:"id"`
	model.Individual
}

type fileOrganization struct {
	ID string `json:"id"`
	model.Organization
}

// File is the on-disk shape of the bulk dataset.
type File struct {
	Individuals   []fileIndividual   `json:"individuals"`
	Organizations []fileOrganization `json:"organizations"`
	Contracts     []model.Contract   `json:"contracts"`
	Claims        []model.Claim      `json:"claims"`
	Guarantees    []model.Guarantee  `json:"guarantees"`
}

// ErrLoadFailure marks a dataset that could not be read or parsed.
// The returned store is empty and the load is never retried.
var ErrLoadFailure = eris.New("dataset: load failure")

// LoadOptions bound how much of the dataset is kept in memory.
// Zero means unlimited.
type LoadOptions struct {
	MaxIndividuals   int
	MaxOrganizations int
}

// Load reads the bulk dataset file and builds an indexed store. On any
// failure it returns an empty store alongside the error: the caller
// reports the failure once and all subsequent lookups behave as
// not-found. Loading is never retried.
func Load(path string, opts LoadOptions) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Empty(), eris.Wrapf(ErrLoadFailure, "read %s: %v", path, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return Empty(), eris.Wrapf(ErrLoadFailure, "parse %s: %v", path, err)
	}

	if opts.MaxIndividuals > 0 && len(f.Individuals) > opts.MaxIndividuals {
		f.Individuals = f.Individuals[:opts.MaxIndividuals]
	}
	if opts.MaxOrganizations > 0 && len(f.Organizations) > opts.MaxOrganizations {
		f.Organizations = f.Organizations[:opts.MaxOrganizations]
	}

	b := Bundle{
		Contracts:  f.Contracts,
		Claims:     f.Claims,
		Guarantees: f.Guarantees,
	}
	for _, ind := range f.Individuals {
		person := ind.Individual
		b.Customers = append(b.Customers, model.Customer{
			ID:         ind.ID,
			Kind:       model.KindIndividual,
			Individual: &person,
		})
	}
	for _, org := range f.Organizations {
		entity := org.Organization
		b.Customers = append(b.Customers, model.Customer{
			ID:           org.ID,
			Kind:         model.KindOrganization,
			Organization: &entity,
		})
	}

	st := New(b)
	zap.L().Info("dataset: loaded",
		zap.String("path", path),
		zap.Int("customers", st.Len()),
		zap.Int("contracts", len(f.Contracts)),
		zap.Int("claims", len(f.Claims)),
	)
	return st, nil
}
