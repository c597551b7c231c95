// internal/eligibility/evaluator_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func strongProfile() ApplicantProfile {
	return ApplicantProfile{
		HasResidencePermit:      true,
		ResidencePermitYears:    3,
		HasTaxID:                true,
		MonthlyIncome:           100_000_000,
		EmploymentStatus:        EmploymentPermanent,
		EmploymentYears:         3,
		Savings:                 3_000_000_000,
		PlannedInvestmentAmount: 5_000_000_000,
		HasTaxReturns:           true,
		HasBankStatements:       true,
		HasEmploymentLetter:     true,
	}
}

func cashOnlyProfile() ApplicantProfile {
	return ApplicantProfile{
		HasResidencePermit:   true,
		ResidencePermitYears: 2,
		HasTaxID:             true,
		EmploymentStatus:     EmploymentPermanent,
		EmploymentYears:      3,
		HasTaxReturns:        true,
		HasBankStatements:    true,
		HasEmploymentLetter:  true,
	}
}

// ==========================
// Boundary Scenarios
// ==========================

func TestEvaluate_EmptyProfile(t *testing.T) {
	result := Evaluate(ApplicantProfile{})

	assert.Equal(t, 0, result.OverallScore)
	assert.False(t, result.MortgageEligible)
	assert.False(t, result.CashInvestmentEligible)
	assert.Contains(t, result.Requirements, ReasonNoResidencePermit)
	assert.Contains(t, result.Requirements, ReasonNoTaxID)
	assert.Contains(t, result.Requirements, ReasonLowDocScore)
	assert.Equal(t, []OwnershipType{OwnershipIncreaseInvestment}, result.RecommendedOwnershipTypes)
	assert.Equal(t, LevelNotEligible, result.QualificationLevel())
}

func TestEvaluate_StrongProfileClampsAt100(t *testing.T) {
	result := Evaluate(strongProfile())

	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, 100, result.Breakdown.Total())
	assert.True(t, result.MortgageEligible)
	assert.True(t, result.CashInvestmentEligible)
	assert.Empty(t, result.Requirements)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, []OwnershipType{
		OwnershipHakPakaiHouse,
		OwnershipHakPakaiRightToUse,
		OwnershipSHMRSStrataTitle,
		OwnershipPTPMA,
	}, result.RecommendedOwnershipTypes)
	assert.Equal(t, LevelMortgage, result.QualificationLevel())
}

func TestEvaluate_FreelancerWithoutTaxID(t *testing.T) {
	result := Evaluate(ApplicantProfile{
		HasResidencePermit:      true,
		ResidencePermitYears:    0,
		HasTaxID:                false,
		MonthlyIncome:           20_000_000,
		EmploymentStatus:        EmploymentFreelance,
		Savings:                 0,
		PlannedInvestmentAmount: 500_000_000,
	})

	assert.Equal(t, 20, result.OverallScore)
	assert.Equal(t, Breakdown{Residence: 15, Income: 5}, result.Breakdown)
	assert.Equal(t, []ReasonCode{ReasonNoTaxID, ReasonLowDocScore}, result.Requirements)
	assert.Equal(t, []ReasonCode{
		ReasonShortPermitTenure,
		ReasonLowIncome,
		ReasonLowDownPayment,
	}, result.Suggestions)
	assert.False(t, result.MortgageEligible)
	assert.False(t, result.CashInvestmentEligible)
	assert.Equal(t, []OwnershipType{OwnershipIncreaseInvestment}, result.RecommendedOwnershipTypes)
}

func TestEvaluate_InvestmentBandsAreExclusive(t *testing.T) {
	p := ApplicantProfile{PlannedInvestmentAmount: 5_000_000_001}
	result := Evaluate(p)

	assert.Equal(t, 15, result.Breakdown.Investment)
	assert.Contains(t, result.RecommendedOwnershipTypes, OwnershipHakPakaiHouse)
	assert.NotContains(t, result.RecommendedOwnershipTypes, OwnershipSHMRSApartment)
}

// ==========================
// Scoring Rules
// ==========================

func TestEvaluate_ResidenceTenure(t *testing.T) {
	tests := []struct {
		name       string
		years      float64
		points     int
		suggestion bool
	}{
		{"under one year", 0.5, 15, true},
		{"one year", 1, 20, false},
		{"just under two", 1.99, 20, false},
		{"two years", 2, 25, false},
		{"ten years", 10, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(ApplicantProfile{HasResidencePermit: true, ResidencePermitYears: tt.years})
			assert.Equal(t, tt.points, result.Breakdown.Residence)
			if tt.suggestion {
				assert.Contains(t, result.Suggestions, ReasonShortPermitTenure)
			} else {
				assert.NotContains(t, result.Suggestions, ReasonShortPermitTenure)
			}
		})
	}
}

func TestEvaluate_PermitYearsIgnoredWithoutPermit(t *testing.T) {
	result := Evaluate(ApplicantProfile{ResidencePermitYears: 5})

	assert.Equal(t, 0, result.Breakdown.Residence)
	assert.Contains(t, result.Requirements, ReasonNoResidencePermit)
	assert.NotContains(t, result.Suggestions, ReasonShortPermitTenure)
}

func TestEvaluate_IncomeTiers(t *testing.T) {
	tests := []struct {
		income     int64
		points     int
		suggestion bool
	}{
		{0, 0, false},
		{1, 5, true},
		{29_999_999, 5, true},
		{30_000_000, 10, false},
		{49_999_999, 10, false},
		{50_000_000, 15, false},
		{100_000_000, 20, false},
	}

	for _, tt := range tests {
		result := Evaluate(ApplicantProfile{MonthlyIncome: tt.income})
		assert.Equal(t, tt.points, result.Breakdown.Income, "income %d", tt.income)
		assert.Equal(t, tt.suggestion, containsCode(result.Suggestions, ReasonLowIncome), "income %d", tt.income)
	}
}

func TestEvaluate_EmploymentStability(t *testing.T) {
	tests := []struct {
		status EmploymentStatus
		years  float64
		points int
	}{
		{EmploymentPermanent, 2, 15},
		{EmploymentPermanent, 1.5, 10},
		{EmploymentContract, 5, 5},
		{EmploymentBusiness, 10, 0},
		{EmploymentFreelance, 10, 0},
		{EmploymentNone, 0, 0},
		{EmploymentStatus("Permanent"), 3, 15},
		{EmploymentStatus("retired"), 3, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			result := Evaluate(ApplicantProfile{EmploymentStatus: tt.status, EmploymentYears: tt.years})
			assert.Equal(t, tt.points, result.Breakdown.Employment)
		})
	}
}

func TestEvaluate_ShortPermanentEmploymentHasNoSuggestion(t *testing.T) {
	p := strongProfile()
	p.EmploymentYears = 1
	result := Evaluate(p)

	assert.Equal(t, 10, result.Breakdown.Employment)
	assert.Empty(t, result.Suggestions)
}

func TestEvaluate_InvestmentTiers(t *testing.T) {
	tests := []struct {
		amount     int64
		points     int
		suggestion bool
	}{
		{0, 0, false},
		{999_999_999, 0, false},
		{1_000_000_000, 10, true},
		{2_999_999_999, 10, true},
		{3_000_000_000, 15, false},
		{4_999_999_999, 15, false},
		{5_000_000_000, 15, false},
	}

	for _, tt := range tests {
		result := Evaluate(ApplicantProfile{PlannedInvestmentAmount: tt.amount})
		assert.Equal(t, tt.points, result.Breakdown.Investment, "amount %d", tt.amount)
		assert.Equal(t, tt.suggestion, containsCode(result.Suggestions, ReasonMinInvestment), "amount %d", tt.amount)
	}
}

func TestEvaluate_DownPayment(t *testing.T) {
	tests := []struct {
		name       string
		savings    int64
		planned    int64
		points     int
		suggestion bool
	}{
		{"half exactly", 1_500_000_000, 3_000_000_000, 5, false},
		{"just under half", 1_499_999_999, 3_000_000_000, 3, false},
		{"thirty percent exactly", 900_000_000, 3_000_000_000, 3, false},
		{"just under thirty percent", 899_999_999, 3_000_000_000, 0, true},
		{"odd amount thirty percent", 3, 10, 3, false},
		{"no planned investment", 1_000_000_000, 0, 0, true},
		{"no savings", 0, 1_000_000_000, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(ApplicantProfile{Savings: tt.savings, PlannedInvestmentAmount: tt.planned})
			assert.Equal(t, tt.points, result.Breakdown.DownPayment)
			assert.Equal(t, tt.suggestion, containsCode(result.Suggestions, ReasonLowDownPayment))
		})
	}
}

func TestEvaluate_Documents(t *testing.T) {
	tests := []struct {
		name                       string
		taxReturns, bank, employer bool
		points                     int
		violation                  bool
	}{
		{"none", false, false, false, 0, true},
		{"tax returns only", true, false, false, 3, true},
		{"bank statements only", false, true, false, 4, true},
		{"tax returns and bank", true, true, false, 7, false},
		{"bank and letter", false, true, true, 7, false},
		{"tax returns and letter", true, false, true, 6, true},
		{"all", true, true, true, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(ApplicantProfile{
				HasTaxReturns:       tt.taxReturns,
				HasBankStatements:   tt.bank,
				HasEmploymentLetter: tt.employer,
			})
			assert.Equal(t, tt.points, result.Breakdown.Documents)
			assert.Equal(t, tt.violation, containsCode(result.Requirements, ReasonLowDocScore))
		})
	}
}

// ==========================
// Derived Flags
// ==========================

func TestEvaluate_CashEligibleWithoutMortgage(t *testing.T) {
	result := Evaluate(cashOnlyProfile())

	assert.Equal(t, 60, result.OverallScore)
	assert.False(t, result.MortgageEligible)
	assert.True(t, result.CashInvestmentEligible)
	assert.Equal(t, LevelCash, result.QualificationLevel())
}

func TestEvaluate_MortgageNeedsIncome(t *testing.T) {
	p := strongProfile()
	p.MonthlyIncome = 29_999_999
	result := Evaluate(p)

	assert.GreaterOrEqual(t, result.OverallScore, MortgageMinScore)
	assert.False(t, result.MortgageEligible)
	assert.True(t, result.CashInvestmentEligible)
}

func TestEvaluate_FlagsRequirePermit(t *testing.T) {
	p := strongProfile()
	p.HasResidencePermit = false
	result := Evaluate(p)

	assert.Equal(t, 75, result.OverallScore)
	assert.False(t, result.MortgageEligible)
	assert.False(t, result.CashInvestmentEligible)
	assert.NotContains(t, result.RecommendedOwnershipTypes, OwnershipHakPakaiRightToUse)
}

func TestEvaluate_HighIncomeWithPoorDocumentation(t *testing.T) {
	p := ApplicantProfile{
		HasResidencePermit:   true,
		ResidencePermitYears: 3,
		MonthlyIncome:        150_000_000,
	}
	result := Evaluate(p)

	assert.Equal(t, 45, result.OverallScore)
	assert.False(t, result.MortgageEligible)
	assert.False(t, result.CashInvestmentEligible)
	assert.ElementsMatch(t, []ReasonCode{ReasonNoTaxID, ReasonLowDocScore}, result.Requirements)
	assert.Contains(t, result.RecommendedOwnershipTypes, OwnershipPTPMA)
}

func TestEvaluate_FlagsFollowScoreAndPermit(t *testing.T) {
	for _, p := range sampleProfiles() {
		result := Evaluate(p)
		n := p.normalized()

		wantMortgage := result.OverallScore >= MortgageMinScore && n.HasResidencePermit && n.MonthlyIncome >= MortgageMinIncome
		wantCash := result.OverallScore >= CashMinScore && n.HasResidencePermit
		assert.Equal(t, wantMortgage, result.MortgageEligible, "%+v", p)
		assert.Equal(t, wantCash, result.CashInvestmentEligible, "%+v", p)
	}
}

// ==========================
// Ownership Recommendations
// ==========================

func TestEvaluate_OwnershipRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		profile ApplicantProfile
		want    []OwnershipType
	}{
		{
			name:    "apartment band",
			profile: ApplicantProfile{PlannedInvestmentAmount: 3_000_000_000},
			want:    []OwnershipType{OwnershipSHMRSApartment, OwnershipSHMRSStrataTitle},
		},
		{
			name:    "house band without permit",
			profile: ApplicantProfile{PlannedInvestmentAmount: 5_000_000_000},
			want:    []OwnershipType{OwnershipHakPakaiHouse, OwnershipSHMRSStrataTitle},
		},
		{
			name:    "company structure from income only",
			profile: ApplicantProfile{MonthlyIncome: 50_000_000},
			want:    []OwnershipType{OwnershipPTPMA},
		},
		{
			name:    "below every rule",
			profile: ApplicantProfile{PlannedInvestmentAmount: 2_999_999_999, MonthlyIncome: 49_999_999},
			want:    []OwnershipType{OwnershipIncreaseInvestment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.profile).RecommendedOwnershipTypes)
		})
	}
}

func TestEvaluate_OwnershipListNeverEmptyNorDuplicated(t *testing.T) {
	for _, p := range sampleProfiles() {
		types := Evaluate(p).RecommendedOwnershipTypes
		require.NotEmpty(t, types)

		seen := map[OwnershipType]bool{}
		for _, o := range types {
			assert.False(t, seen[o], "duplicate %q for %+v", o, p)
			seen[o] = true
		}
		if len(types) > 1 {
			assert.NotContains(t, types, OwnershipIncreaseInvestment)
		}
	}
}

// ==========================
// Properties
// ==========================

func TestEvaluate_ScoreWithinBounds(t *testing.T) {
	for _, p := range sampleProfiles() {
		result := Evaluate(p)
		assert.GreaterOrEqual(t, result.OverallScore, 0)
		assert.LessOrEqual(t, result.OverallScore, MaxScore)
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	for _, p := range sampleProfiles() {
		assert.Equal(t, Evaluate(p), Evaluate(p))
	}
}

func TestEvaluate_NegativeInputsActAsZero(t *testing.T) {
	negative := ApplicantProfile{
		ResidencePermitYears:    -1,
		MonthlyIncome:           -5,
		EmploymentYears:         -3,
		Savings:                 -10,
		PlannedInvestmentAmount: -100,
	}
	assert.Equal(t, Evaluate(ApplicantProfile{}), Evaluate(negative))
}

// Raising income or savings, or adding a document, never lowers the score.
// Planned investment is excluded: a larger plan can lower the down-payment ratio.
func TestEvaluate_ScoreIsMonotone(t *testing.T) {
	for _, p := range sampleProfiles() {
		base := Evaluate(p).OverallScore

		richer := p
		richer.MonthlyIncome += 40_000_000
		assert.GreaterOrEqual(t, Evaluate(richer).OverallScore, base)

		saver := p
		saver.Savings += 2_000_000_000
		assert.GreaterOrEqual(t, Evaluate(saver).OverallScore, base)

		documented := p
		documented.HasBankStatements = true
		assert.GreaterOrEqual(t, Evaluate(documented).OverallScore, base)

		tenured := p
		tenured.ResidencePermitYears += 1
		tenured.EmploymentYears += 1
		assert.GreaterOrEqual(t, Evaluate(tenured).OverallScore, base)
	}

	for _, amount := range []int64{0, 999_999_999, 1_000_000_000, 3_000_000_000, 5_000_000_000} {
		lower := Evaluate(ApplicantProfile{PlannedInvestmentAmount: amount}).OverallScore
		higher := Evaluate(ApplicantProfile{PlannedInvestmentAmount: amount + 1_000_000_000}).OverallScore
		assert.GreaterOrEqual(t, higher, lower, "amount %d", amount)
	}
}

func sampleProfiles() []ApplicantProfile {
	var out []ApplicantProfile
	statuses := []EmploymentStatus{EmploymentPermanent, EmploymentContract, EmploymentFreelance, EmploymentNone}
	incomes := []int64{0, 10_000_000, 30_000_000, 50_000_000, 150_000_000}
	investments := []int64{0, 1_000_000_000, 3_000_000_000, 6_000_000_000}

	for i, status := range statuses {
		for j, income := range incomes {
			for k, invest := range investments {
				out = append(out, ApplicantProfile{
					HasResidencePermit:      (i+j)%2 == 0,
					ResidencePermitYears:    float64(k),
					HasTaxID:                j%2 == 1,
					MonthlyIncome:           income,
					EmploymentStatus:        status,
					EmploymentYears:         float64(j),
					Savings:                 invest / int64(k+1),
					PlannedInvestmentAmount: invest,
					HasTaxReturns:           k > 0,
					HasBankStatements:       j > 1,
					HasEmploymentLetter:     i == 0,
				})
			}
		}
	}
	return append(out, strongProfile(), cashOnlyProfile(), ApplicantProfile{})
}

func containsCode(codes []ReasonCode, code ReasonCode) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
