// internal/workers/eligibility/load-applicant-profile/models.go
package loadapplicantprofile

type Input struct {
	ApplicantID string `json:"applicantId"`
}

// StoredProfile is one applicant_profiles row as cached in Redis.
type StoredProfile struct {
	ApplicantID string                 `json:"applicantId"`
	Profile     map[string]interface{} `json:"profile"`
	Email       string                 `json:"email"`
	Phone       string                 `json:"phone"`
	FullName    string                 `json:"fullName"`
	Locale      string                 `json:"locale"`
}

type Output struct {
	StoredProfile
	CacheHit bool `json:"profileCacheHit"`
}
