// Package bureau identifies which credit bureaus a salvaged report mentions
// and selects the primary one. It also owns the canonical bureau mailing
// address table used by letter composition.
package bureau

import (
	"regexp"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// patternFamily is the ordered list of detection patterns for one bureau.
// A bureau is present if any pattern in its family matches.
type patternFamily struct {
	bureau   string
	patterns []*regexp.Regexp
	// headers are report-header phrases used as a primary-bureau tiebreak.
	headers []string
	// countWords are keywords counted for the last-resort frequency tiebreak.
	countWords []string
}

var families = []patternFamily{
	{
		bureau: domain.BureauExperian,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bexperian\b`),
			regexp.MustCompile(`(?i)experian\.com`),
			regexp.MustCompile(`(?i)\bexp\b[:.]`),
			regexp.MustCompile(`(?i)national consumer assistance center`),
		},
		headers:    []string{"NATIONAL CONSUMER ASSISTANCE CENTER", "EXPERIAN CREDIT REPORT"},
		countWords: []string{"experian"},
	},
	{
		bureau: domain.BureauEquifax,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bequifax\b`),
			regexp.MustCompile(`(?i)equifax\.com`),
			regexp.MustCompile(`(?i)\beqf\b[:.]`),
			regexp.MustCompile(`(?i)equifax information services`),
		},
		headers:    []string{"EQUIFAX INFORMATION SERVICES", "EQUIFAX CREDIT REPORT"},
		countWords: []string{"equifax"},
	},
	{
		bureau: domain.BureauTransUnion,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\btransunion\b`),
			regexp.MustCompile(`(?i)\btrans\s+union\b`),
			regexp.MustCompile(`(?i)transunion\.com`),
			regexp.MustCompile(`(?i)\btu\b[:.]`),
		},
		headers:    []string{"TRANSUNION CREDIT REPORT", "TRANS UNION CREDIT REPORT"},
		countWords: []string{"transunion", "trans union"},
	},
}

// Detection is the outcome of a bureau scan.
type Detection struct {
	Present domain.BureauPresence
	// Primary is empty when no bureau can be confidently selected; no
	// default bureau is ever invented.
	Primary string
}

// Detect scans salvaged text for the three bureau pattern families and
// applies the primary-selection policy: sole presence, then header phrases,
// then strict keyword-count maximum, else unset.
func Detect(text string) Detection {
	var d Detection
	if strings.TrimSpace(text) == "" {
		return d
	}

	for _, fam := range families {
		for _, p := range fam.patterns {
			if p.MatchString(text) {
				markPresent(&d.Present, fam.bureau)
				break
			}
		}
	}

	if sole, ok := d.Present.Sole(); ok {
		d.Primary = sole
		return d
	}

	upper := strings.ToUpper(text)
	for _, fam := range families {
		for _, h := range fam.headers {
			if strings.Contains(upper, h) {
				d.Primary = fam.bureau
				return d
			}
		}
	}

	lower := strings.ToLower(text)
	best, bestCount, tied := "", 0, false
	for _, fam := range families {
		count := 0
		for _, w := range fam.countWords {
			count += strings.Count(lower, w)
		}
		switch {
		case count > bestCount:
			best, bestCount, tied = fam.bureau, count, false
		case count == bestCount && count > 0:
			tied = true
		}
	}
	if bestCount > 0 && !tied {
		d.Primary = best
	}
	return d
}

func markPresent(p *domain.BureauPresence, bureau string) {
	switch bureau {
	case domain.BureauExperian:
		p.Experian = true
	case domain.BureauEquifax:
		p.Equifax = true
	case domain.BureauTransUnion:
		p.TransUnion = true
	}
}

// Normalize maps any recognized bureau spelling to its canonical name.
// Unrecognized names are returned trimmed but otherwise untouched.
func Normalize(name string) string {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "") {
	case "experian":
		return domain.BureauExperian
	case "equifax":
		return domain.BureauEquifax
	case "transunion":
		return domain.BureauTransUnion
	}
	return strings.TrimSpace(name)
}
