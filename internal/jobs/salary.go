package jobs

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type salaryBand int

const (
	bandLow salaryBand = iota
	bandMid
	bandHigh
	bandHighest
)

type bandRange struct {
	min int
	max int
}

// SalaryFormatter renders salary figures for a region: currency symbol and
// digit grouping follow the locale (grouped-lakh notation for India, grouped
// thousands otherwise). It also supplies the seniority-band estimate for
// listings that report no salary at all.
type SalaryFormatter struct {
	printer *message.Printer
	symbol  string
	bands   map[salaryBand]bandRange
}

// NewSalaryFormatter selects the locale by region code. Unknown or empty
// regions fall back to US formatting.
func NewSalaryFormatter(region string) *SalaryFormatter {
	switch strings.ToUpper(strings.TrimSpace(region)) {
	case "IN":
		return &SalaryFormatter{
			printer: message.NewPrinter(language.MustParse("en-IN")),
			symbol:  "₹",
			bands: map[salaryBand]bandRange{
				bandLow:     {300000, 600000},
				bandMid:     {800000, 1500000},
				bandHigh:    {2000000, 3500000},
				bandHighest: {3500000, 6000000},
			},
		}
	default:
		return &SalaryFormatter{
			printer: message.NewPrinter(language.AmericanEnglish),
			symbol:  "$",
			bands: map[salaryBand]bandRange{
				bandLow:     {45000, 65000},
				bandMid:     {70000, 110000},
				bandHigh:    {120000, 170000},
				bandHighest: {160000, 230000},
			},
		}
	}
}

// FormatRange renders a salary range reported by the listing source.
func (f *SalaryFormatter) FormatRange(min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return f.printer.Sprintf("%s%d - %s%d", f.symbol, int(min), f.symbol, int(max))
	case min > 0:
		return f.printer.Sprintf("from %s%d", f.symbol, int(min))
	case max > 0:
		return f.printer.Sprintf("up to %s%d", f.symbol, int(max))
	default:
		return ""
	}
}

// Estimate derives a salary band from seniority words in the title. The
// result is a heuristic, not listing data, and is marked as estimated so it
// stays distinguishable in output.
func (f *SalaryFormatter) Estimate(title string) string {
	r := f.bands[seniorityBand(title)]
	return f.printer.Sprintf("%s%d - %s%d (estimated)", f.symbol, r.min, f.symbol, r.max)
}

func seniorityBand(title string) salaryBand {
	t := strings.ToLower(title)

	switch {
	case containsAnyWord(t, "senior", "lead", "principal", "architect", "staff"):
		return bandHigh
	case containsAnyWord(t, "manager", "director", "head", "vp"):
		return bandHighest
	case containsAnyWord(t, "junior", "intern", "trainee", "fresher", "entry"):
		return bandLow
	default:
		return bandMid
	}
}

func containsAnyWord(s string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
