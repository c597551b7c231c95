// internal/workers/eligibility/load-applicant-profile/config.go
package loadapplicantprofile

import (
	"time"

	"property-eligibility-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(wcfg config.WorkerConfig, ecfg config.EligibilityConfig) *Config {
	cfg := &Config{
		Timeout:  wcfg.TimeoutDuration(),
		CacheTTL: time.Duration(ecfg.ProfileCacheTTL) * time.Second,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return cfg
}
