package extract

import (
	"regexp"
	"strings"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// Ordered per-field rule table for account blocks. Earlier rules win.
var accountFieldRules = []fieldRule{
	{"name", regexp.MustCompile(`(?im)^(?:account\s+name|creditor(?:\s+name)?|company|furnisher)\s*[:#]?\s+(.{2,60})$`)},
	{"number", regexp.MustCompile(`(?i)(?:account\s*(?:no\.?|number|#)|acct\.?\s*#?)\s*[:#]?\s*([A-Za-z0-9*Xx-]{4,24})`)},
	{"type", regexp.MustCompile(`(?im)^(?:account\s+)?type\s*[:#]?\s+([A-Za-z /-]{3,30})$`)},
	{"balance", regexp.MustCompile(`(?i)(?:current\s+)?balance\s*[:#]?\s*(\$?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
	{"limit", regexp.MustCompile(`(?i)(?:credit\s+limit|high\s+credit|limit)\s*[:#]?\s*(\$?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
	{"payment_status", regexp.MustCompile(`(?im)^(?:payment\s+status|pay\s+status|status\s+of\s+payment)\s*[:#]?\s+(.{2,60})$`)},
	{"status", regexp.MustCompile(`(?i)account\s+status\s*[:#]?\s*(open|closed)`)},
	{"status", regexp.MustCompile(`(?i)\b(open|closed)\b`)},
	{"date_opened", regexp.MustCompile(`(?i)(?:date\s+opened|opened\s+on|opened)\s*[:#]?\s*([A-Za-z0-9/,. -]{4,20}?)(?:\n|$)`)},
	{"date_reported", regexp.MustCompile(`(?i)(?:date\s+reported|last\s+reported|reported\s+on)\s*[:#]?\s*([A-Za-z0-9/,. -]{4,20}?)(?:\n|$)`)},
	{"last_activity", regexp.MustCompile(`(?i)(?:last\s+activity|date\s+of\s+last\s+activity)\s*[:#]?\s*([A-Za-z0-9/,. -]{4,20}?)(?:\n|$)`)},
	{"remarks", regexp.MustCompile(`(?im)^(?:remarks?|comments?)\s*[:#]?\s+(.+)$`)},
}

// accountChecklist qualifies a blank-line block as an account candidate when
// no section header matched.
var accountChecklist = []string{
	"account number", "account name", "date opened", "payment status",
	"credit limit", "balance", "high credit",
}

// knownCreditors drives the first zero-record fallback pass: well-known
// creditor names that justify emitting a minimal record around each hit.
var knownCreditors = []string{
	"CHASE", "CAPITAL ONE", "BANK OF AMERICA", "WELLS FARGO", "CITIBANK",
	"DISCOVER", "AMERICAN EXPRESS", "SYNCHRONY", "US BANK", "BARCLAYS",
	"CREDIT ONE", "NAVIENT", "NELNET", "SALLIE MAE", "DEPT OF ED",
	"MOHELA", "PORTFOLIO RECOVERY", "MIDLAND CREDIT", "LVNV FUNDING",
}

// accountTypeKeywords drives the second fallback pass: generic placeholder
// records keyed off account-type vocabulary, so downstream stages always have
// something to reason about.
var accountTypeKeywords = []string{
	"credit card", "mortgage", "auto loan", "student loan",
	"personal loan", "line of credit", "collection",
}

// firstLineNameRe accepts a block's opening line as the account name when no
// labeled name field matched: a short line of letters without a field label.
var firstLineNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 .,&'/-]{1,59}$`)

// Accounts extracts tradelines. The returned fallback tag is non-empty when a
// zero-record fallback pass produced the result ("known-creditor" or
// "placeholder").
func Accounts(text string, presence domain.BureauPresence) ([]domain.Account, string) {
	section := text
	rules := sectionRules{headers: accountsHeaderRe, stops: stopsExcept("accounts")}
	var candidates []string
	if sec, ok := rules.locate(text); ok {
		section = sec
		candidates = blocks(section)
	} else {
		candidates = keywordBlocks(text, accountChecklist)
	}

	accounts := make([]domain.Account, 0, len(candidates))
	for _, block := range candidates {
		if acct, ok := accountFromBlock(block, presence); ok {
			accounts = append(accounts, acct)
		}
	}
	if len(accounts) > 0 {
		return accounts, ""
	}

	if accounts = knownCreditorPass(text, presence); len(accounts) > 0 {
		return accounts, "known-creditor"
	}
	if accounts = placeholderPass(text, presence); len(accounts) > 0 {
		return accounts, "placeholder"
	}
	return []domain.Account{}, ""
}

// accountFromBlock runs the field rule table over one block. The record is
// accepted only when it has a name plus at least one other populated field,
// which avoids manufacturing empty accounts from noise.
func accountFromBlock(block string, presence domain.BureauPresence) (domain.Account, bool) {
	fields := applyRules(accountFieldRules, block)

	name := fields["name"]
	if name == "" {
		first := strings.TrimSpace(strings.SplitN(block, "\n", 2)[0])
		if firstLineNameRe.MatchString(first) && !strings.Contains(first, ":") {
			name = cleanValue(first)
		}
	}
	if name == "" {
		return domain.Account{}, false
	}

	acct := domain.Account{
		AccountName:   name,
		AccountNumber: fields["number"],
		AccountType:   strings.ToLower(fields["type"]),
		Balance:       parseMoney(fields["balance"]),
		CreditLimit:   parseMoney(fields["limit"]),
		PaymentStatus: fields["payment_status"],
		Status:        strings.ToLower(fields["status"]),
		DateOpened:    fields["date_opened"],
		DateReported:  fields["date_reported"],
		LastActivity:  fields["last_activity"],
		Bureau:        attributeBureau(block, presence),
	}
	if r := fields["remarks"]; r != "" {
		acct.Remarks = []string{r}
	}
	acct.IsNegative = hasNegativeVocab(acct.PaymentStatus) ||
		hasNegativeVocab(strings.Join(acct.Remarks, " "))

	populated := 0
	for _, v := range []string{
		acct.AccountNumber, acct.AccountType, acct.PaymentStatus, acct.Status,
		acct.DateOpened, acct.DateReported, acct.LastActivity,
	} {
		if v != "" {
			populated++
		}
	}
	if acct.Balance != nil || acct.CreditLimit != nil || len(acct.Remarks) > 0 {
		populated++
	}
	return acct, populated >= 1
}

// knownCreditorPass emits one minimal record per well-known creditor name
// found anywhere in the text.
func knownCreditorPass(text string, presence domain.BureauPresence) []domain.Account {
	upper := asciiUpper(text)
	var accounts []domain.Account
	seen := make(map[string]bool)
	for _, creditor := range knownCreditors {
		idx := strings.Index(upper, creditor)
		if idx < 0 || seen[creditor] {
			continue
		}
		seen[creditor] = true

		// Inspect the surrounding text for balance and negative vocabulary.
		start, end := idx-120, idx+len(creditor)+120
		if start < 0 {
			start = 0
		}
		if end > len(text) {
			end = len(text)
		}
		window := text[start:end]

		acct := domain.Account{
			AccountName: titleCase(creditor),
			Bureau:      attributeBureau(window, presence),
			IsNegative:  hasNegativeVocab(window),
		}
		if m := regexp.MustCompile(`(?i)\$\s*([0-9][0-9,]*(?:\.\d{1,2})?)`).FindStringSubmatch(window); len(m) > 1 {
			acct.Balance = parseMoney(m[1])
		}
		accounts = append(accounts, acct)
	}
	return accounts
}

// placeholderPass emits generic records keyed off account-type keywords.
func placeholderPass(text string, presence domain.BureauPresence) []domain.Account {
	lower := strings.ToLower(text)
	var accounts []domain.Account
	for _, kw := range accountTypeKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		accounts = append(accounts, domain.Account{
			AccountName: titleCase(kw) + " Account",
			AccountType: kw,
			Bureau:      soleOrEmpty(presence),
		})
	}
	return accounts
}

func soleOrEmpty(presence domain.BureauPresence) string {
	if sole, ok := presence.Sole(); ok {
		return sole
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
