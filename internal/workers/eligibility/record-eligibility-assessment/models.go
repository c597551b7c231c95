// internal/workers/eligibility/record-eligibility-assessment/models.go
package recordeligibilityassessment

import "property-eligibility-workers/internal/eligibility"

type Input struct {
	SubmissionID string `json:"submissionId"`
	ApplicantID  string `json:"applicantId"`
	eligibility.Result
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	RecordedAt   string `json:"recordedAt"` // ISO 8601
}
