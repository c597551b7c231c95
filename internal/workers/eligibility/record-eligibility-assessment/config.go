// internal/workers/eligibility/record-eligibility-assessment/config.go
package recordeligibilityassessment

import (
	"time"

	"property-eligibility-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := wcfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout}
}
