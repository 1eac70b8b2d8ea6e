package extract

import (
	"regexp"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

var personalChecklist = []string{"name", "address", "employer", "date of birth"}

var personalFieldRules = []fieldRule{
	{"name", regexp.MustCompile(`(?im)^(?:consumer\s+)?name\s*[:#]\s*(.{2,80})$`)},
	{"name", regexp.MustCompile(`(?im)^(?:prepared|report)\s+for\s*[:#]?\s*(.{2,80})$`)},
	{"address", regexp.MustCompile(`(?im)^(?:current\s+|street\s+)?address\s*[:#]\s*(.{4,120})$`)},
	{"citystatezip", regexp.MustCompile(`(?im)^([A-Za-z .'-]{2,40}),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)$`)},
	{"dob", regexp.MustCompile(`(?i)(?:date\s+of\s+birth|dob)\s*[:#]?\s*([A-Za-z0-9/,. -]{4,20}?)(?:\n|$)`)},
}

var (
	previousAddressRe = regexp.MustCompile(`(?im)^(?:previous|prior|former)\s+address(?:es)?\s*[:#]?\s*(.{4,120})$`)
	employerRe        = regexp.MustCompile(`(?im)^(?:current\s+)?employer(?:\s+name)?\s*[:#]?\s*(.{2,80})$`)
	cityStateZipRe    = regexp.MustCompile(`([A-Za-z .'-]{2,40}),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)`)
)

// Personal extracts consumer identity data. Comma-joined multi-value fields
// (a name or employer holding several comma-separated values, or an address
// holding piled-up address fragments) are split and recorded in
// MultiValueFields; the issue classifier treats them as a mixed-file signal.
func Personal(text string, presence domain.BureauPresence) domain.PersonalInfo {
	_ = presence // personal info carries no per-record bureau attribution

	rules := sectionRules{headers: personalHeaderRe, stops: stopsExcept("personal")}
	section := text
	if sec, ok := rules.locate(text); ok {
		section = sec
	} else if hits := keywordBlocks(text, personalChecklist); len(hits) > 0 {
		section = strings.Join(hits, "\n\n")
	}

	fields := applyRules(personalFieldRules, section)

	info := domain.PersonalInfo{
		Name:    fields["name"],
		Address: fields["address"],
	}

	if m := cityStateZipRe.FindStringSubmatch(section); len(m) > 3 {
		info.City = cleanValue(m[1])
		info.State = m[2]
		info.Zip = m[3]
	}

	for _, m := range previousAddressRe.FindAllStringSubmatch(section, -1) {
		if v := cleanValue(m[1]); v != "" {
			info.PreviousAddresses = append(info.PreviousAddresses, v)
		}
	}
	for _, m := range employerRe.FindAllStringSubmatch(section, -1) {
		if v := cleanValue(m[1]); v != "" {
			info.Employers = append(info.Employers, v)
		}
	}

	info.MultiValueFields = detectMultiValue(info)
	return info
}

// detectMultiValue flags comma-joined multi-value fields. A name or employer
// should never contain a comma-separated list; an address may legitimately
// contain one comma (street, unit), so it is flagged only past that.
func detectMultiValue(info domain.PersonalInfo) map[string][]string {
	multi := make(map[string][]string)

	if parts := splitValues(info.Name); len(parts) >= 2 {
		multi["name"] = parts
	}
	if parts := splitValues(info.Address); len(parts) >= 3 {
		multi["address"] = parts
	}
	for _, emp := range info.Employers {
		if parts := splitValues(emp); len(parts) >= 2 {
			multi["employer"] = append(multi["employer"], parts...)
		}
	}

	if len(multi) == 0 {
		return nil
	}
	return multi
}

func splitValues(s string) []string {
	if !strings.Contains(s, ",") {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if v := strings.TrimSpace(p); len(v) >= 2 {
			parts = append(parts, v)
		}
	}
	if len(parts) < 2 {
		return nil
	}
	return parts
}
