// internal/workers/eligibility/validate-applicant-profile/config.go
package validateapplicantprofile

import (
	"time"

	"property-eligibility-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// ThrowOnInvalid raises PROFILE_VALIDATION_FAILED instead of completing
	// the job with profileValid=false.
	ThrowOnInvalid bool
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := wcfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		Timeout:        timeout,
		ThrowOnInvalid: true,
	}
}
