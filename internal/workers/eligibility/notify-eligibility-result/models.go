// internal/workers/eligibility/notify-eligibility-result/models.go
package notifyeligibilityresult

import "property-eligibility-workers/internal/eligibility"

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

type Input struct {
	ApplicantID string `json:"applicantId"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FullName    string `json:"fullName"`
	Locale      string `json:"locale"`
	eligibility.Result
}

type Output struct {
	NotificationLocale string `json:"notificationLocale"`
	EmailStatus        string `json:"emailStatus"`
	EmailMessageID     string `json:"emailMessageId,omitempty"`
	SMSStatus          string `json:"smsStatus"`
	SMSMessageID       string `json:"smsMessageId,omitempty"`
}
