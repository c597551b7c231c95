// internal/eligibility/i18n/catalog.go
package i18n

import (
	"property-eligibility-workers/internal/eligibility"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when nothing in a request matches a supported locale.
var DefaultLocale = language.English

var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

// Match picks the best supported locale for an Accept-Language header or a
// bare locale string such as "id-ID".
func Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return supported[idx]
}

// Supported lists the locales with a catalog.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

type phrase func(p *message.Printer) string

func text(s string) phrase {
	return func(*message.Printer) string { return s }
}

func rupiah(format string, amount int64) phrase {
	return func(p *message.Printer) string {
		return p.Sprintf(format, p.Sprintf("Rp%d", amount))
	}
}

// Catalog holds the display strings for one locale.
type Catalog struct {
	Tag       language.Tag
	reasons   map[eligibility.ReasonCode]phrase
	ownership map[eligibility.OwnershipType]string
	levels    map[eligibility.QualificationLevel]string
	printer   *message.Printer
}

var catalogs = map[language.Tag]*Catalog{
	language.English: {
		Tag: language.English,
		reasons: map[eligibility.ReasonCode]phrase{
			eligibility.ReasonNoResidencePermit: text("A valid residence permit (KITAS/KITAP) is required."),
			eligibility.ReasonNoTaxID:           text("An Indonesian tax ID (NPWP) is required."),
			eligibility.ReasonLowDocScore:       text("Provide at least bank statements plus tax returns or an employment letter."),
			eligibility.ReasonShortPermitTenure: text("Residence permit history under one year limits your score; it improves after 12 months."),
			eligibility.ReasonLowIncome:         rupiah("Monthly income of at least %s is needed for mortgage eligibility.", eligibility.MortgageMinIncome),
			eligibility.ReasonMinInvestment:     rupiah("Planning an investment of %s or more opens more ownership options.", 3_000_000_000),
			eligibility.ReasonLowDownPayment:    text("A down payment of at least 40-50% of the planned investment is recommended."),
		},
		ownership: map[eligibility.OwnershipType]string{},
		levels: map[eligibility.QualificationLevel]string{
			eligibility.LevelMortgage:    "Eligible for mortgage financing",
			eligibility.LevelCash:        "Eligible for cash purchase",
			eligibility.LevelNotEligible: "Not yet eligible",
		},
	},
	language.Indonesian: {
		Tag: language.Indonesian,
		reasons: map[eligibility.ReasonCode]phrase{
			eligibility.ReasonNoResidencePermit: text("Izin tinggal yang berlaku (KITAS/KITAP) wajib dimiliki."),
			eligibility.ReasonNoTaxID:           text("NPWP wajib dimiliki."),
			eligibility.ReasonLowDocScore:       text("Lampirkan rekening koran serta SPT atau surat keterangan kerja."),
			eligibility.ReasonShortPermitTenure: text("Masa izin tinggal kurang dari satu tahun membatasi skor Anda; skor naik setelah 12 bulan."),
			eligibility.ReasonLowIncome:         rupiah("Penghasilan bulanan minimal %s diperlukan untuk KPR.", eligibility.MortgageMinIncome),
			eligibility.ReasonMinInvestment:     rupiah("Rencana investasi %s atau lebih membuka lebih banyak pilihan kepemilikan.", 3_000_000_000),
			eligibility.ReasonLowDownPayment:    text("Uang muka minimal 40-50% dari rencana investasi disarankan."),
		},
		ownership: map[eligibility.OwnershipType]string{
			eligibility.OwnershipHakPakaiHouse:      "Hak Pakai (Rumah)",
			eligibility.OwnershipSHMRSApartment:     "SHMRS (Apartemen/Kondominium)",
			eligibility.OwnershipHakPakaiRightToUse: "Hak Pakai (Hak Guna)",
			eligibility.OwnershipSHMRSStrataTitle:   "SHMRS (Sertifikat Strata)",
			eligibility.OwnershipPTPMA:              "PT PMA (Struktur Perusahaan)",
			eligibility.OwnershipIncreaseInvestment: "Silakan tingkatkan jumlah investasi",
		},
		levels: map[eligibility.QualificationLevel]string{
			eligibility.LevelMortgage:    "Memenuhi syarat KPR",
			eligibility.LevelCash:        "Memenuhi syarat pembelian tunai",
			eligibility.LevelNotEligible: "Belum memenuhi syarat",
		},
	},
}

func init() {
	for tag, c := range catalogs {
		c.printer = message.NewPrinter(tag)
	}
}

// For returns the catalog for the closest supported locale.
func For(tag language.Tag) *Catalog {
	if c, ok := catalogs[tag]; ok {
		return c
	}
	_, idx, _ := matcher.Match(tag)
	return catalogs[supported[idx]]
}

// Lookup returns the display text for a reason code. Unknown codes are
// returned verbatim.
func (c *Catalog) Lookup(code eligibility.ReasonCode) string {
	if p, ok := c.reasons[code]; ok {
		return p(c.printer)
	}
	return string(code)
}

// OwnershipLabel translates an ownership structure. The English labels are
// the structure names themselves.
func (c *Catalog) OwnershipLabel(o eligibility.OwnershipType) string {
	if label, ok := c.ownership[o]; ok {
		return label
	}
	return string(o)
}

// LevelLabel describes a qualification level.
func (c *Catalog) LevelLabel(level eligibility.QualificationLevel) string {
	if label, ok := c.levels[level]; ok {
		return label
	}
	return string(level)
}

// Amount formats a rupiah amount with the locale's digit grouping.
func (c *Catalog) Amount(amount int64) string {
	return c.printer.Sprintf("Rp%d", amount)
}

// Lookup is shorthand for For(tag).Lookup(code).
func Lookup(code eligibility.ReasonCode, tag language.Tag) string {
	return For(tag).Lookup(code)
}

// OwnershipLabel is shorthand for For(tag).OwnershipLabel(o).
func OwnershipLabel(o eligibility.OwnershipType, tag language.Tag) string {
	return For(tag).OwnershipLabel(o)
}
