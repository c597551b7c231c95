// internal/workers/eligibility/notify-eligibility-result/config.go
package notifyeligibilityresult

import (
	"time"

	"property-eligibility-workers/internal/common/config"
	"property-eligibility-workers/internal/eligibility/i18n"

	"golang.org/x/text/language"
)

type Config struct {
	Timeout       time.Duration
	EmailEnabled  bool
	SMSEnabled    bool
	DefaultLocale language.Tag
}

func LoadConfig(wcfg config.WorkerConfig, appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:       wcfg.TimeoutDuration(),
		EmailEnabled:  appCfg.Notifications.Email.Enabled,
		SMSEnabled:    appCfg.Notifications.SMS.Enabled,
		DefaultLocale: i18n.Match(appCfg.Eligibility.DefaultLocale),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg
}
