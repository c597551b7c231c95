// internal/eligibility/profile.go
package eligibility

import "strings"

// EmploymentStatus is the applicant's declared employment arrangement.
type EmploymentStatus string

const (
	EmploymentPermanent EmploymentStatus = "permanent"
	EmploymentContract  EmploymentStatus = "contract"
	EmploymentBusiness  EmploymentStatus = "business"
	EmploymentFreelance EmploymentStatus = "freelance"
	EmploymentNone      EmploymentStatus = "none"
)

// ParseEmploymentStatus maps free text from the form to a status.
// Anything it does not recognise is EmploymentNone.
func ParseEmploymentStatus(s string) EmploymentStatus {
	switch EmploymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case EmploymentPermanent:
		return EmploymentPermanent
	case EmploymentContract:
		return EmploymentContract
	case EmploymentBusiness:
		return EmploymentBusiness
	case EmploymentFreelance:
		return EmploymentFreelance
	default:
		return EmploymentNone
	}
}

// ApplicantProfile holds the declared financial, legal and residency facts
// of one applicant. Monetary amounts are whole IDR.
type ApplicantProfile struct {
	HasResidencePermit   bool    `json:"hasResidencePermit"`
	ResidencePermitYears float64 `json:"residencePermitYears"`
	HasTaxID             bool    `json:"hasTaxId"`

	MonthlyIncome    int64            `json:"monthlyIncome"`
	EmploymentStatus EmploymentStatus `json:"employmentStatus"`
	EmploymentYears  float64          `json:"employmentYears"`

	Savings                 int64 `json:"savings"`
	PlannedInvestmentAmount int64 `json:"plannedInvestmentAmount"`

	HasTaxReturns       bool `json:"hasTaxReturns"`
	HasBankStatements   bool `json:"hasBankStatements"`
	HasEmploymentLetter bool `json:"hasEmploymentLetter"`
}

// normalized returns a copy with every numeric field clamped at zero and an
// unknown employment status folded to EmploymentNone.
func (p ApplicantProfile) normalized() ApplicantProfile {
	if p.ResidencePermitYears < 0 || p.ResidencePermitYears != p.ResidencePermitYears {
		p.ResidencePermitYears = 0
	}
	if p.EmploymentYears < 0 || p.EmploymentYears != p.EmploymentYears {
		p.EmploymentYears = 0
	}
	if p.MonthlyIncome < 0 {
		p.MonthlyIncome = 0
	}
	if p.Savings < 0 {
		p.Savings = 0
	}
	if p.PlannedInvestmentAmount < 0 {
		p.PlannedInvestmentAmount = 0
	}
	p.EmploymentStatus = ParseEmploymentStatus(string(p.EmploymentStatus))
	return p
}
