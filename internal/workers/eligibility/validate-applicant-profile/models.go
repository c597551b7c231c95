// internal/workers/eligibility/validate-applicant-profile/models.go
package validateapplicantprofile

import "property-eligibility-workers/internal/common/validation"

type Input struct {
	ApplicantID string                 `json:"applicantId"`
	Profile     map[string]interface{} `json:"profile"`
}

type Output struct {
	ProfileValid     bool                         `json:"profileValid"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}
