// internal/workers/eligibility/search-eligible-listings/config.go
package searcheligiblelistings

import (
	"fmt"
	"time"

	"property-eligibility-workers/internal/common/config"

	"github.com/shopspring/decimal"
)

type Config struct {
	Timeout         time.Duration
	Index           string
	MaxListings     int
	RentIncomeRatio decimal.Decimal
}

func LoadConfig(wcfg config.WorkerConfig, ecfg config.EligibilityConfig) (*Config, error) {
	ratio := ecfg.RentIncomeRatio
	if ratio == "" {
		ratio = "0.3"
	}
	rentRatio, err := decimal.NewFromString(ratio)
	if err != nil {
		return nil, fmt.Errorf("invalid eligibility.rent_income_ratio %q: %w", ratio, err)
	}
	if rentRatio.IsNegative() || rentRatio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("eligibility.rent_income_ratio must be between 0 and 1, got %s", ratio)
	}

	cfg := &Config{
		Timeout:         wcfg.TimeoutDuration(),
		Index:           ecfg.ListingsIndex,
		MaxListings:     ecfg.MaxListings,
		RentIncomeRatio: rentRatio,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Index == "" {
		cfg.Index = "property_listings"
	}
	if cfg.MaxListings <= 0 || cfg.MaxListings > 100 {
		cfg.MaxListings = 20
	}
	return cfg, nil
}
