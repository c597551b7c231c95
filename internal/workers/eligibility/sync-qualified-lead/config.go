// internal/workers/eligibility/sync-qualified-lead/config.go
package syncqualifiedlead

import (
	"time"

	"property-eligibility-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	LeadSource string
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := wcfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Config{
		Timeout:    timeout,
		LeadSource: "Property Eligibility",
	}
}
