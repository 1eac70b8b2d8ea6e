package extract

import (
	"regexp"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

var inquiryChecklist = []string{"inquiry", "inquiries", "requested your", "credit check"}

// Dates accepted in inquiry rows: 01/15/2024, 1-15-24, 2024-01-15, Jan 15, 2024.
const inquiryDatePattern = `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|[A-Z][a-z]{2,8}\.?\s+\d{1,2},?\s+\d{4})`

// The three supported row layouts, tried in order per line.
var (
	dateThenCreditorRe = regexp.MustCompile(`^` + inquiryDatePattern + `\s+(.{2,60})$`)
	creditorThenDateRe = regexp.MustCompile(`^(.{2,60}?)\s+` + inquiryDatePattern + `$`)
	tabularRowRe       = regexp.MustCompile(`^(\S.{0,58}?)\s{2,}(\S.{0,58})$`)
	inquiryDateOnlyRe  = regexp.MustCompile(`^` + inquiryDatePattern + `$`)
)

// Inquiries extracts credit inquiry rows. Rows whose creditor is a
// placeholder token ("N/A", "-", shorter than two characters) are discarded.
func Inquiries(text string, presence domain.BureauPresence) []domain.Inquiry {
	rules := sectionRules{headers: inquiriesHeaderRe, stops: stopsExcept("inquiries")}
	var candidates []string
	if sec, ok := rules.locate(text); ok {
		candidates = []string{sec}
	} else {
		candidates = keywordBlocks(text, inquiryChecklist)
	}

	inquiries := make([]domain.Inquiry, 0)
	for _, section := range candidates {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if inq, ok := inquiryFromLine(line); ok {
				inq.Bureau = attributeBureau(section, presence)
				inquiries = append(inquiries, inq)
			}
		}
	}
	return inquiries
}

// inquiryFromLine tries the three supported layouts in sequence.
func inquiryFromLine(line string) (domain.Inquiry, bool) {
	if m := dateThenCreditorRe.FindStringSubmatch(line); m != nil {
		return acceptInquiry(m[2], m[1])
	}
	if m := creditorThenDateRe.FindStringSubmatch(line); m != nil {
		return acceptInquiry(m[1], m[2])
	}
	if m := tabularRowRe.FindStringSubmatch(line); m != nil {
		left, right := cleanValue(m[1]), cleanValue(m[2])
		switch {
		case inquiryDateOnlyRe.MatchString(right):
			return acceptInquiry(left, right)
		case inquiryDateOnlyRe.MatchString(left):
			return acceptInquiry(right, left)
		}
	}
	return domain.Inquiry{}, false
}

func acceptInquiry(creditor, date string) (domain.Inquiry, bool) {
	creditor = cleanValue(creditor)
	if isPlaceholderCreditor(creditor) {
		return domain.Inquiry{}, false
	}
	return domain.Inquiry{Creditor: creditor, InquiryDate: cleanValue(date)}, true
}

func isPlaceholderCreditor(creditor string) bool {
	switch strings.ToUpper(creditor) {
	case "N/A", "NA", "-", "--", "NONE", "UNKNOWN":
		return true
	}
	return len(creditor) < 2
}
