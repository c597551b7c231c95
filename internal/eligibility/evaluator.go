// internal/eligibility/evaluator.go
package eligibility

import "github.com/shopspring/decimal"

const (
	MaxScore = 100

	MortgageMinScore  = 70
	MortgageMinIncome = 30_000_000
	CashMinScore      = 50

	investmentTierHouse     = 5_000_000_000
	investmentTierApartment = 3_000_000_000
	investmentTierMinimum   = 1_000_000_000

	incomeTierHigh      = 100_000_000
	incomeTierUpper     = 50_000_000
	incomeTierMortgage  = 30_000_000
	companyStructIncome = 50_000_000

	docPassScore = 7
)

var (
	fullDownPayment    = decimal.RequireFromString("0.5")
	partialDownPayment = decimal.RequireFromString("0.3")
)

// ownershipRule pairs a predicate with the label it recommends.
type ownershipRule struct {
	label   OwnershipType
	applies func(p ApplicantProfile) bool
}

// ownershipRules is evaluated top to bottom; the first two entries are the
// mutually exclusive investment bands that also drive scoring.
var ownershipRules = []ownershipRule{
	{OwnershipHakPakaiHouse, func(p ApplicantProfile) bool {
		return p.PlannedInvestmentAmount >= investmentTierHouse
	}},
	{OwnershipSHMRSApartment, func(p ApplicantProfile) bool {
		return p.PlannedInvestmentAmount >= investmentTierApartment && p.PlannedInvestmentAmount < investmentTierHouse
	}},
	{OwnershipHakPakaiRightToUse, func(p ApplicantProfile) bool {
		return p.PlannedInvestmentAmount >= investmentTierHouse && p.HasResidencePermit
	}},
	{OwnershipSHMRSStrataTitle, func(p ApplicantProfile) bool {
		return p.PlannedInvestmentAmount >= investmentTierApartment
	}},
	{OwnershipPTPMA, func(p ApplicantProfile) bool {
		return p.MonthlyIncome >= companyStructIncome
	}},
}

// Evaluate scores a profile and derives its eligibility. It is pure: the same
// profile always yields the same result.
func Evaluate(profile ApplicantProfile) Result {
	p := profile.normalized()
	s := &scorecard{}

	s.residence(p)
	s.taxID(p)
	s.income(p)
	s.employment(p)
	s.investment(p)
	s.downPayment(p)
	s.documents(p)

	score := s.breakdown.Total()
	if score > MaxScore {
		score = MaxScore
	}

	return Result{
		OverallScore:              score,
		MortgageEligible:          score >= MortgageMinScore && p.HasResidencePermit && p.MonthlyIncome >= MortgageMinIncome,
		CashInvestmentEligible:    score >= CashMinScore && p.HasResidencePermit,
		RecommendedOwnershipTypes: recommendOwnership(p),
		Requirements:              s.requirements,
		Suggestions:               s.suggestions,
		Breakdown:                 s.breakdown,
	}
}

type scorecard struct {
	breakdown    Breakdown
	requirements []ReasonCode
	suggestions  []ReasonCode
}

func (s *scorecard) require(code ReasonCode) { s.requirements = append(s.requirements, code) }
func (s *scorecard) suggest(code ReasonCode) { s.suggestions = append(s.suggestions, code) }

func (s *scorecard) residence(p ApplicantProfile) {
	if !p.HasResidencePermit {
		s.require(ReasonNoResidencePermit)
		return
	}
	s.breakdown.Residence = 15
	switch {
	case p.ResidencePermitYears >= 2:
		s.breakdown.Residence += 10
	case p.ResidencePermitYears >= 1:
		s.breakdown.Residence += 5
	default:
		s.suggest(ReasonShortPermitTenure)
	}
}

func (s *scorecard) taxID(p ApplicantProfile) {
	if !p.HasTaxID {
		s.require(ReasonNoTaxID)
		return
	}
	s.breakdown.TaxID = 10
}

func (s *scorecard) income(p ApplicantProfile) {
	switch {
	case p.MonthlyIncome >= incomeTierHigh:
		s.breakdown.Income = 20
	case p.MonthlyIncome >= incomeTierUpper:
		s.breakdown.Income = 15
	case p.MonthlyIncome >= incomeTierMortgage:
		s.breakdown.Income = 10
	case p.MonthlyIncome > 0:
		s.breakdown.Income = 5
		s.suggest(ReasonLowIncome)
	}
}

// employment gives a permanent employee under two years 10 of 15 points
// without a suggestion; the other partial bands do emit one.
func (s *scorecard) employment(p ApplicantProfile) {
	switch p.EmploymentStatus {
	case EmploymentPermanent:
		s.breakdown.Employment = 10
		if p.EmploymentYears >= 2 {
			s.breakdown.Employment += 5
		}
	case EmploymentContract:
		s.breakdown.Employment = 5
	}
}

func (s *scorecard) investment(p ApplicantProfile) {
	switch {
	case p.PlannedInvestmentAmount >= investmentTierApartment:
		s.breakdown.Investment = 15
	case p.PlannedInvestmentAmount >= investmentTierMinimum:
		s.breakdown.Investment = 10
		s.suggest(ReasonMinInvestment)
	}
}

// downPayment compares savings against the planned investment. With no
// planned investment the ratio is undefined and earns nothing.
func (s *scorecard) downPayment(p ApplicantProfile) {
	if p.PlannedInvestmentAmount > 0 {
		savings := decimal.NewFromInt(p.Savings)
		planned := decimal.NewFromInt(p.PlannedInvestmentAmount)
		switch {
		case savings.GreaterThanOrEqual(planned.Mul(fullDownPayment)):
			s.breakdown.DownPayment = 5
			return
		case savings.GreaterThanOrEqual(planned.Mul(partialDownPayment)):
			s.breakdown.DownPayment = 3
			return
		}
	}
	s.suggest(ReasonLowDownPayment)
}

func (s *scorecard) documents(p ApplicantProfile) {
	if p.HasTaxReturns {
		s.breakdown.Documents += 3
	}
	if p.HasBankStatements {
		s.breakdown.Documents += 4
	}
	if p.HasEmploymentLetter {
		s.breakdown.Documents += 3
	}
	if s.breakdown.Documents < docPassScore {
		s.require(ReasonLowDocScore)
	}
}

func recommendOwnership(p ApplicantProfile) []OwnershipType {
	seen := make(map[OwnershipType]bool, len(ownershipRules))
	var out []OwnershipType
	for _, rule := range ownershipRules {
		if rule.applies(p) && !seen[rule.label] {
			seen[rule.label] = true
			out = append(out, rule.label)
		}
	}
	if len(out) == 0 {
		return []OwnershipType{OwnershipIncreaseInvestment}
	}
	return out
}
