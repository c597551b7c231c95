// internal/workers/eligibility/search-eligible-listings/models.go
package searcheligiblelistings

import "property-eligibility-workers/internal/eligibility"

type Input struct {
	ApplicantID               string                      `json:"applicantId"`
	Profile                   map[string]interface{}      `json:"profile"`
	RecommendedOwnershipTypes []eligibility.OwnershipType `json:"recommendedOwnershipTypes"`
}

type Listing struct {
	ListingID     string `json:"listingId"`
	Title         string `json:"title"`
	City          string `json:"city"`
	OwnershipType string `json:"ownershipType"`
	ListingType   string `json:"listingType"`
	Price         int64  `json:"price,omitempty"`
	MonthlyRent   int64  `json:"monthlyRent,omitempty"`
}

type Output struct {
	Listings      []Listing `json:"eligibleListings"`
	TotalHits     int64     `json:"eligibleListingsTotal"`
	SearchSkipped bool      `json:"listingSearchSkipped"`
}

// listingDoc is the _source shape in the listings index.
type listingDoc struct {
	ListingID     string `json:"listing_id"`
	Title         string `json:"title"`
	City          string `json:"city"`
	OwnershipType string `json:"ownership_type"`
	ListingType   string `json:"listing_type"`
	Price         int64  `json:"price"`
	MonthlyRent   int64  `json:"monthly_rent"`
	Status        string `json:"status"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string     `json:"_id"`
			Source listingDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
