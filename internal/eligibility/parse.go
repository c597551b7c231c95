// internal/eligibility/parse.go
package eligibility

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Form field names as submitted by the eligibility wizard.
const (
	FieldHasResidencePermit      = "hasResidencePermit"
	FieldResidencePermitYears    = "residencePermitYears"
	FieldHasTaxID                = "hasTaxId"
	FieldMonthlyIncome           = "monthlyIncome"
	FieldEmploymentStatus        = "employmentStatus"
	FieldEmploymentYears         = "employmentYears"
	FieldSavings                 = "savings"
	FieldPlannedInvestmentAmount = "plannedInvestmentAmount"
	FieldHasTaxReturns           = "hasTaxReturns"
	FieldHasBankStatements       = "hasBankStatements"
	FieldHasEmploymentLetter     = "hasEmploymentLetter"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseProfile builds a profile from loosely typed form data. It never fails:
// missing, malformed, negative or non-finite values become zero or false.
func ParseProfile(raw map[string]interface{}) ApplicantProfile {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	status, _ := raw[FieldEmploymentStatus].(string)

	return ApplicantProfile{
		HasResidencePermit:      parseBool(raw[FieldHasResidencePermit]),
		ResidencePermitYears:    parseFloat(raw[FieldResidencePermitYears]),
		HasTaxID:                parseBool(raw[FieldHasTaxID]),
		MonthlyIncome:           parseAmount(raw[FieldMonthlyIncome]),
		EmploymentStatus:        ParseEmploymentStatus(status),
		EmploymentYears:         parseFloat(raw[FieldEmploymentYears]),
		Savings:                 parseAmount(raw[FieldSavings]),
		PlannedInvestmentAmount: parseAmount(raw[FieldPlannedInvestmentAmount]),
		HasTaxReturns:           parseBool(raw[FieldHasTaxReturns]),
		HasBankStatements:       parseBool(raw[FieldHasBankStatements]),
		HasEmploymentLetter:     parseBool(raw[FieldHasEmploymentLetter]),
	}
}

// parseAmount reads a whole currency amount. Fractions are truncated.
func parseAmount(raw interface{}) int64 {
	var d decimal.Decimal
	switch v := raw.(type) {
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float32:
		return parseAmount(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		return parseAmount(v.String())
	case string:
		parsed, err := decimal.NewFromString(cleanNumber(v))
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}

	if d.IsNegative() || d.IsZero() {
		return 0
	}
	// Bound the magnitude from the exponent before any comparison rescales
	// the coefficient to 10^exp.
	magnitude := int64(d.Exponent()) + int64(d.NumDigits())
	if magnitude <= 0 {
		return 0
	}
	if magnitude > 19 {
		return math.MaxInt64
	}
	if d.GreaterThan(maxAmount) {
		return math.MaxInt64
	}
	return d.IntPart()
}

func parseFloat(raw interface{}) float64 {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(cleanNumber(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func parseBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case float64:
		return v != 0 && !math.IsNaN(v)
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "y", "true", "1", "ya", "iya":
			return true
		}
	}
	return false
}

// cleanNumber strips currency markers and grouping separators. More than one
// dot means the dots are thousands separators ("30.000.000"). After a rupiah
// prefix a single dot followed by exactly three digits groups thousands too
// ("Rp30.000").
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	rupiah := false
	for _, prefix := range []string{"idr", "rp.", "rp"} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			rupiah = true
			break
		}
	}
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	switch dots := strings.Count(s, "."); {
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	case dots == 1 && rupiah && thousandsGroup.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

var thousandsGroup = regexp.MustCompile(`^[0-9]+\.[0-9]{3}$`)
