// Package recommend applies the ordered business rules that turn a
// risk profile and existing coverage into ranked product suggestions.
package recommend

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// DocProvider supplies supporting documentation for a product. An
// implementation may consult a live document store and fall back to an
// embedded corpus.
type DocProvider interface {
	ProductDoc(ctx context.Context, product string) (string, model.DocOrigin, error)
}

// Engine evaluates the recommendation rules against a customer
// profile. Safe for concurrent use; the catalog is read-only after
// construction.
type Engine struct {
	catalog Catalog
	docs    DocProvider
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in product table.
func WithCatalog(c Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithDocProvider enables documentation enrichment on each emitted
// recommendation.
func WithDocProvider(p DocProvider) Option {
	return func(e *Engine) { e.docs = p }
}

// NewEngine builds an engine over the default catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{catalog: DefaultCatalog()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// highIncomeProfessions is the allowlist for the retirement-savings
// rule, matched accent- and case-insensitively as substrings.
var highIncomeProfessions = []string{"medecin", "doctor", "ingenieur", "engineer"}

// Generate runs the four rules in order against the profile and the
// customer's existing coverage. Rules are independent; each emits zero
// or one recommendation. The result is stably sorted by priority so
// equal ranks keep rule order. An empty list is a valid outcome and is
// returned non-nil so callers can tell it apart from "never ran".
func (e *Engine) Generate(ctx context.Context, rp model.RiskProfile, contracts []model.Contract) []model.ProductRecommendation {
	branches := make(map[string]bool, len(contracts))
	hasHealth := false
	for _, ct := range contracts {
		branches[ct.Branch] = true
		if strings.Contains(ct.Branch, model.BranchHealth) {
			hasHealth = true
		}
	}

	recs := []model.ProductRecommendation{}
	emit := func(key string) {
		entry, ok := e.catalog[key]
		if !ok {
			zap.L().Warn("recommend: catalog entry missing", zap.String("key", key))
			return
		}
		recs = append(recs, model.ProductRecommendation{
			Product:          entry.Product,
			Priority:         entry.Priority,
			Reasoning:        entry.Reasoning,
			TargetProfile:    entry.TargetProfile,
			EstimatedPremium: entry.EstimatedPremium,
			ExpectedBenefit:  entry.ExpectedBenefit,
		})
	}

	// Rules 1 and 4 key on the individual profession. Organizations
	// carry an activity label in rp.Profession but never trip them.
	if !branches[model.BranchLife] && rp.HasProfession && matchesProfession(rp.Profession, highIncomeProfessions) {
		emit(KeyRetirementSavings)
	}
	if !branches[model.BranchLife] && isMarried(rp.FamilyStatus) {
		emit(KeyTemporaryDeath)
	}
	if !hasHealth {
		emit(KeyGroupHealth)
	}
	if !branches[model.BranchHome] && rp.HasProfession {
		emit(KeyHomeMultirisk)
	}

	model.SortByPriority(recs)
	e.enrich(ctx, recs)
	return recs
}

// enrich attaches supporting documentation to each recommendation when
// a provider is configured. Enrichment failures are logged and leave
// the recommendation without documentation rather than failing the run.
func (e *Engine) enrich(ctx context.Context, recs []model.ProductRecommendation) {
	if e.docs == nil {
		return
	}
	for i := range recs {
		doc, origin, err := e.docs.ProductDoc(ctx, recs[i].Product.Product)
		if err != nil {
			zap.L().Warn("recommend: documentation lookup failed",
				zap.String("product", recs[i].Product.Product),
				zap.Error(err))
			continue
		}
		recs[i].Documentation = doc
		recs[i].DocumentationVia = origin
	}
}

// stripDiacritics removes combining marks so "Médecin" and "medecin"
// compare equal.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func matchesProfession(profession string, allowlist []string) bool {
	if profession == "" {
		return false
	}
	folded := fold(profession)
	for _, want := range allowlist {
		if strings.Contains(folded, want) {
			return true
		}
	}
	return false
}

// isMarried matches the marital status labels seen in the dataset,
// both the French "Marié(e)" spellings and the plain English one.
func isMarried(status string) bool {
	f := fold(status)
	return f == "married" || strings.HasPrefix(f, "marie")
}
