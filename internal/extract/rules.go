// Package extract recovers structured records (personal info, accounts,
// inquiries, public records) from salvaged credit report text.
//
// Every extractor follows the same shape: locate a candidate section with an
// ordered list of header patterns (first match wins), fall back to keyword
// filtered blank-line blocks, then run an ordered per-field rule table over
// each candidate block (first match per field wins). A record is accepted
// only if it has a name plus at least one other populated field. When a whole
// family yields nothing, distinct fallback passes keep the pipeline supplied
// with best-effort data instead of stopping.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// fieldRule binds a field name to one pattern in an ordered rule table.
// Priority is positional: earlier rules win.
type fieldRule struct {
	field string
	re    *regexp.Regexp
}

// sectionRules locates a content family's section. Headers are tried in
// order; the section runs from the first header hit to the earliest
// subsequent stop-pattern hit.
type sectionRules struct {
	headers []*regexp.Regexp
	stops   []*regexp.Regexp
}

// locate returns the section text and true, or ("", false) when no header
// matched anywhere.
func (s sectionRules) locate(text string) (string, bool) {
	for _, h := range s.headers {
		loc := h.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		end := len(rest)
		for _, stop := range s.stops {
			if m := stop.FindStringIndex(rest); m != nil && m[0] < end {
				end = m[0]
			}
		}
		return rest[:end], true
	}
	return "", false
}

// Shared section boundary patterns. Each family's section stops where
// another family's section begins.
var (
	accountsHeaderRe = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^.*account\s+information.*$`),
		regexp.MustCompile(`(?im)^.*trade\s*lines?.*$`),
		regexp.MustCompile(`(?im)^.*credit\s+accounts.*$`),
		regexp.MustCompile(`(?im)^\s*accounts\s*$`),
	}
	inquiriesHeaderRe = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^.*(?:credit\s+)?inquiries.*$`),
		regexp.MustCompile(`(?im)^.*requests?\s+for\s+your\s+credit\s+history.*$`),
		regexp.MustCompile(`(?im)^.*companies\s+that\s+requested.*$`),
	}
	publicRecordsHeaderRe = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^.*public\s+records?.*$`),
		regexp.MustCompile(`(?im)^.*courthouse\s+records?.*$`),
	}
	personalHeaderRe = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^.*personal\s+information.*$`),
		regexp.MustCompile(`(?im)^.*consumer\s+information.*$`),
		regexp.MustCompile(`(?im)^.*identification\s+information.*$`),
	}
)

var headerFamilies = map[string][]*regexp.Regexp{
	"accounts":       accountsHeaderRe,
	"inquiries":      inquiriesHeaderRe,
	"public_records": publicRecordsHeaderRe,
	"personal":       personalHeaderRe,
}

// stopsExcept returns every family's header patterns except the named one,
// so a section ends where any other section begins.
func stopsExcept(name string) []*regexp.Regexp {
	var stops []*regexp.Regexp
	for famName, group := range headerFamilies {
		if famName == name {
			continue
		}
		stops = append(stops, group...)
	}
	return stops
}

var blankLineSplitRe = regexp.MustCompile(`\n\s*\n`)

// blocks splits text on blank lines.
func blocks(text string) []string {
	parts := blankLineSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

// keywordBlocks returns the blank-line blocks of the whole text that contain
// at least one checklist keyword. Used when no section header matched.
func keywordBlocks(text string, checklist []string) []string {
	var hits []string
	for _, b := range blocks(text) {
		lower := strings.ToLower(b)
		for _, kw := range checklist {
			if strings.Contains(lower, kw) {
				hits = append(hits, b)
				break
			}
		}
	}
	return hits
}

// applyRules runs an ordered rule table over a block and returns the first
// capture per field, trimmed and lightly normalized.
func applyRules(rules []fieldRule, block string) map[string]string {
	out := make(map[string]string)
	for _, r := range rules {
		if _, done := out[r.field]; done {
			continue
		}
		if m := r.re.FindStringSubmatch(block); len(m) > 1 {
			if v := cleanValue(m[1]); v != "" {
				out[r.field] = v
			}
		}
	}
	return out
}

// asciiUpper upper-cases ASCII letters only. Unlike strings.ToUpper it never
// changes byte length, so indices into the result are valid indices into the
// input. The creditor vocabulary is pure ASCII.
func asciiUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

var innerSpaceRe = regexp.MustCompile(`\s+`)

// cleanValue trims whitespace and stray punctuation and collapses inner runs
// of whitespace.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ":;|#")
	s = innerSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// parseMoney converts "$1,234.56" style captures to a float. Returns nil on
// anything unparseable; extraction gaps are recoverable, never errors.
func parseMoney(s string) *float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// attributeBureau picks the bureau for one record: an explicit mention inside
// the block wins; otherwise, when exactly one bureau flag is set for the
// whole report, the record is attributed to it; otherwise it stays blank.
func attributeBureau(block string, presence domain.BureauPresence) string {
	lower := strings.ToLower(block)
	switch {
	case strings.Contains(lower, "experian"):
		return domain.BureauExperian
	case strings.Contains(lower, "equifax"):
		return domain.BureauEquifax
	case strings.Contains(lower, "transunion") || strings.Contains(lower, "trans union"):
		return domain.BureauTransUnion
	}
	if sole, ok := presence.Sole(); ok {
		return sole
	}
	return ""
}

// negativeVocab marks payment statuses and remarks that flag a tradeline as
// derogatory.
var negativeVocab = []string{
	"late", "delinquent", "past due", "collection", "charge off", "charge-off",
	"charged off", "derogatory", "repossession", "default", "30 days", "60 days",
	"90 days", "120 days",
}

func hasNegativeVocab(s string) bool {
	lower := strings.ToLower(s)
	for _, w := range negativeVocab {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
