// internal/workers/eligibility/search-eligible-listings/query.go
package searcheligiblelistings

import (
	"property-eligibility-workers/internal/eligibility"

	"github.com/shopspring/decimal"
)

const (
	listingTypeSale = "sale"
	listingTypeRent = "rent"
)

// budget is what the applicant can afford per listing type. Zero disables
// that listing type.
type budget struct {
	MaxPrice       int64
	MaxMonthlyRent int64
}

func budgetFor(profile eligibility.ApplicantProfile, rentRatio decimal.Decimal) budget {
	return budget{
		MaxPrice:       profile.PlannedInvestmentAmount,
		MaxMonthlyRent: decimal.NewFromInt(profile.MonthlyIncome).Mul(rentRatio).IntPart(),
	}
}

// searchableOwnership drops the placeholder recommendation and duplicates.
func searchableOwnership(types []eligibility.OwnershipType) []string {
	seen := make(map[eligibility.OwnershipType]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t == "" || t == eligibility.OwnershipIncreaseInvestment || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, string(t))
	}
	return out
}

// buildQuery returns nil when nothing could match.
func buildQuery(ownership []string, b budget, size int) map[string]interface{} {
	if len(ownership) == 0 {
		return nil
	}

	var should []interface{}
	if b.MaxPrice > 0 {
		should = append(should, listingTypeClause(listingTypeSale, "price", b.MaxPrice))
	}
	if b.MaxMonthlyRent > 0 {
		should = append(should, listingTypeClause(listingTypeRent, "monthly_rent", b.MaxMonthlyRent))
	}
	if len(should) == 0 {
		return nil
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"status": "active"}},
					map[string]interface{}{"terms": map[string]interface{}{"ownership_type": ownership}},
				},
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"price": map[string]interface{}{"order": "asc", "missing": "_last"}},
			map[string]interface{}{"monthly_rent": map[string]interface{}{"order": "asc", "missing": "_last"}},
		},
	}
}

func listingTypeClause(listingType, field string, max int64) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": []interface{}{
				map[string]interface{}{"term": map[string]interface{}{"listing_type": listingType}},
				map[string]interface{}{"range": map[string]interface{}{field: map[string]interface{}{"lte": max}}},
			},
		},
	}
}
