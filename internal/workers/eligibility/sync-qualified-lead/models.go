// internal/workers/eligibility/sync-qualified-lead/models.go
package syncqualifiedlead

import "property-eligibility-workers/internal/eligibility"

const (
	StatusCreated = "created"
	StatusExists  = "exists"
	StatusSkipped = "skipped"
)

type Input struct {
	ApplicantID  string `json:"applicantId"`
	AssessmentID string `json:"assessmentId"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	FullName     string `json:"fullName"`
	eligibility.Result
}

type Output struct {
	LeadSyncStatus string `json:"leadSyncStatus"`
	CRMContactID   string `json:"crmContactId,omitempty"`
}
