// internal/eligibility/result.go
package eligibility

// ReasonCode identifies a requirement violation or an improvement suggestion.
// Codes are stable and locale-free; see package i18n for display text.
type ReasonCode string

// Requirements: the applicant must fix these.
const (
	ReasonNoResidencePermit ReasonCode = "NO_RESIDENCE_PERMIT"
	ReasonNoTaxID           ReasonCode = "NO_TAX_ID"
	ReasonLowDocScore       ReasonCode = "LOW_DOC_SCORE"
)

// Suggestions: the applicant can improve these.
const (
	ReasonShortPermitTenure ReasonCode = "SHORT_PERMIT_TENURE"
	ReasonLowIncome         ReasonCode = "LOW_INCOME_SUGGESTION"
	ReasonMinInvestment     ReasonCode = "MIN_INVESTMENT_SUGGESTION"
	ReasonLowDownPayment    ReasonCode = "LOW_DOWN_PAYMENT"
)

// IsRequirement reports whether the code is a hard violation.
func (c ReasonCode) IsRequirement() bool {
	switch c {
	case ReasonNoResidencePermit, ReasonNoTaxID, ReasonLowDocScore:
		return true
	}
	return false
}

// OwnershipType is a property ownership structure open to foreign buyers.
type OwnershipType string

const (
	OwnershipHakPakaiHouse      OwnershipType = "Hak Pakai (House)"
	OwnershipSHMRSApartment     OwnershipType = "SHMRS (Apartment/Condo)"
	OwnershipHakPakaiRightToUse OwnershipType = "Hak Pakai (Right to Use)"
	OwnershipSHMRSStrataTitle   OwnershipType = "SHMRS (Strata Title)"
	OwnershipPTPMA              OwnershipType = "PT PMA (Company Structure)"

	// OwnershipIncreaseInvestment stands in when no structure qualifies.
	OwnershipIncreaseInvestment OwnershipType = "Please increase investment amount"
)

// QualificationLevel summarises the two eligibility flags.
type QualificationLevel string

const (
	LevelMortgage    QualificationLevel = "mortgage"
	LevelCash        QualificationLevel = "cash"
	LevelNotEligible QualificationLevel = "not_eligible"
)

// Breakdown is the points each rule contributed before clamping.
type Breakdown struct {
	Residence   int `json:"residence"`
	TaxID       int `json:"taxId"`
	Income      int `json:"income"`
	Employment  int `json:"employment"`
	Investment  int `json:"investment"`
	DownPayment int `json:"downPayment"`
	Documents   int `json:"documents"`
}

// Total is the unclamped sum of all rule points.
func (b Breakdown) Total() int {
	return b.Residence + b.TaxID + b.Income + b.Employment + b.Investment + b.DownPayment + b.Documents
}

// Result is the outcome of one evaluation.
type Result struct {
	OverallScore              int             `json:"overallScore"`
	MortgageEligible          bool            `json:"mortgageEligible"`
	CashInvestmentEligible    bool            `json:"cashInvestmentEligible"`
	RecommendedOwnershipTypes []OwnershipType `json:"recommendedOwnershipTypes"`
	Requirements              []ReasonCode    `json:"requirements"`
	Suggestions               []ReasonCode    `json:"suggestions"`
	Breakdown                 Breakdown       `json:"breakdown"`
}

// QualificationLevel reports the strongest purchase route open to the applicant.
func (r Result) QualificationLevel() QualificationLevel {
	switch {
	case r.MortgageEligible:
		return LevelMortgage
	case r.CashInvestmentEligible:
		return LevelCash
	default:
		return LevelNotEligible
	}
}
