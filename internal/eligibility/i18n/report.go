// internal/eligibility/i18n/report.go
package i18n

import (
	"fmt"
	"strings"

	"property-eligibility-workers/internal/eligibility"

	"golang.org/x/text/language"
)

// Report is a result rendered for one locale.
type Report struct {
	Locale         string   `json:"locale"`
	Score          int      `json:"score"`
	Level          string   `json:"level"`
	Headline       string   `json:"headline"`
	Requirements   []string `json:"requirements"`
	Suggestions    []string `json:"suggestions"`
	OwnershipTypes []string `json:"ownershipTypes"`
}

// Render translates every code and label in the result.
func Render(result eligibility.Result, tag language.Tag) Report {
	c := For(tag)
	level := result.QualificationLevel()

	r := Report{
		Locale:         c.Tag.String(),
		Score:          result.OverallScore,
		Level:          string(level),
		Headline:       fmt.Sprintf("%s (%d/%d)", c.LevelLabel(level), result.OverallScore, eligibility.MaxScore),
		Requirements:   make([]string, 0, len(result.Requirements)),
		Suggestions:    make([]string, 0, len(result.Suggestions)),
		OwnershipTypes: make([]string, 0, len(result.RecommendedOwnershipTypes)),
	}
	for _, code := range result.Requirements {
		r.Requirements = append(r.Requirements, c.Lookup(code))
	}
	for _, code := range result.Suggestions {
		r.Suggestions = append(r.Suggestions, c.Lookup(code))
	}
	for _, o := range result.RecommendedOwnershipTypes {
		r.OwnershipTypes = append(r.OwnershipTypes, c.OwnershipLabel(o))
	}
	return r
}

// Text renders the report as a plain-text message body.
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString(r.Headline)
	b.WriteString("\n")
	writeSection(&b, r.Requirements)
	writeSection(&b, r.Suggestions)
	writeSection(&b, r.OwnershipTypes)
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
}
