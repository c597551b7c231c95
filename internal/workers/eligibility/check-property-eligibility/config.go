// internal/workers/eligibility/check-property-eligibility/config.go
package checkpropertyeligibility

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
		timeout = 5 * time.Second
	}
	return &Config{Timeout: timeout}
}
