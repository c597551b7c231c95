// internal/workers/eligibility/check-property-eligibility/models.go
package checkpropertyeligibility

import "property-eligibility-workers/internal/eligibility"

type Input struct {
	ApplicantID string                 `json:"applicantId"`
	Profile     map[string]interface{} `json:"profile"`
}

// Output flattens the evaluation result into process variables.
type Output struct {
	eligibility.Result
	QualificationLevel eligibility.QualificationLevel `json:"qualificationLevel"`
}
