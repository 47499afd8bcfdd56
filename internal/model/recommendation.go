package model

import "sort"

// ProductRef identifies a product in the catalog taxonomy.
type ProductRef struct {
	Branch    string `json:"branch"`
	SubBranch string `json:"sub_branch"`
	Product   string `json:"product"`
}

// DocOrigin records where a recommendation's supporting documentation
// came from: the live document store, or the embedded fallback corpus.
type DocOrigin string

const (
	DocLive     DocOrigin = "live"
	DocFallback DocOrigin = "fallback"
)

// ProductRecommendation is one ranked product suggestion. Priority is
// numeric, 1 = highest; lists are kept sorted ascending.
type ProductRecommendation struct {
	Product          ProductRef `json:"product"`
	Priority         int        `json:"priority"`
	Reasoning        string     `json:"reasoning"`
	TargetProfile    string     `json:"target_profile"`
	EstimatedPremium float64    `json:"estimated_premium"`
	ExpectedBenefit  string     `json:"expected_benefit"`
	Documentation    string     `json:"documentation,omitempty"`
	DocumentationVia DocOrigin  `json:"documentation_via,omitempty"`
}

// SortByPriority sorts recommendations ascending by priority. The sort
// is stable: equal priorities keep rule-evaluation order.
func SortByPriority(recs []ProductRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
}

// CountTopPriority returns how many recommendations rank at the given
// priority or more urgent, i.e. numerically at or below rank.
func CountTopPriority(recs []ProductRecommendation, rank int) int {
	n := 0
	for _, r := range recs {
		if r.Priority <= rank {
			n++
		}
	}
	return n
}
