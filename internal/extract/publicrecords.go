package extract

import (
	"regexp"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

var publicRecordChecklist = []string{
	"bankruptcy", "tax lien", "judgment", "foreclosure", "civil claim",
}

// recordTypeVocab maps vocabulary hits to the canonical record type label.
var recordTypeVocab = []struct {
	keyword string
	label   string
}{
	{"chapter 7", "Chapter 7 Bankruptcy"},
	{"chapter 13", "Chapter 13 Bankruptcy"},
	{"bankruptcy", "Bankruptcy"},
	{"tax lien", "Tax Lien"},
	{"judgment", "Civil Judgment"},
	{"foreclosure", "Foreclosure"},
	{"civil claim", "Civil Claim"},
}

var publicRecordFieldRules = []fieldRule{
	{"date", regexp.MustCompile(`(?i)(?:date\s+(?:filed|reported)|filed\s+on|filed)\s*[:#]?\s*([A-Za-z0-9/,. -]{4,20}?)(?:\n|$)`)},
	{"status", regexp.MustCompile(`(?im)^status\s*[:#]?\s+(.{2,40})$`)},
	{"status", regexp.MustCompile(`(?i)\b(discharged|dismissed|filed|satisfied|released|pending)\b`)},
}

// PublicRecords extracts bankruptcies, liens and judgments.
func PublicRecords(text string, presence domain.BureauPresence) []domain.PublicRecord {
	rules := sectionRules{headers: publicRecordsHeaderRe, stops: stopsExcept("public_records")}
	var candidates []string
	if sec, ok := rules.locate(text); ok {
		candidates = blocks(sec)
	} else {
		candidates = keywordBlocks(text, publicRecordChecklist)
	}

	records := make([]domain.PublicRecord, 0)
	for _, block := range candidates {
		lower := strings.ToLower(block)
		for _, vt := range recordTypeVocab {
			if !strings.Contains(lower, vt.keyword) {
				continue
			}
			fields := applyRules(publicRecordFieldRules, block)
			records = append(records, domain.PublicRecord{
				RecordType:   vt.label,
				Bureau:       attributeBureau(block, presence),
				DateReported: fields["date"],
				Status:       strings.ToLower(fields["status"]),
			})
			break // one record per block, most specific vocabulary first
		}
	}
	return records
}
