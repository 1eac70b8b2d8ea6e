// Package issues is the rule engine that turns an assembled credit report
// into typed, severity-ranked, legally cited dispute issues.
//
// Each rule is independent and order-insensitive for correctness; rule order
// only determines the order of the emitted list. Issues are never mutated
// after creation.
package issues

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/legal"
)

// staleInquiryAge is how old an inquiry may be before it becomes disputable.
const staleInquiryAge = 365 * 24 * time.Hour

// staleBankruptcyYears is the reporting-window threshold for bankruptcies.
const staleBankruptcyYears = 7

// Classifier runs the rule set against a report. The clock is injected so
// staleness rules are deterministic under test.
type Classifier struct {
	now func() time.Time
}

// New creates a Classifier. A nil clock means time.Now.
func New(now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

type rule func(*Classifier, *domain.CreditReport) []domain.Issue

var rules = []rule{
	(*Classifier).personalInfoAnomalies,
	(*Classifier).negativeAccounts,
	(*Classifier).duplicateStudentLoans,
	(*Classifier).staleBankruptcies,
	(*Classifier).staleInquiries,
	(*Classifier).missingCriticalDates,
}

// Classify runs every rule and returns the combined issue list with ids,
// citations and bureau attribution filled in. When no rule fires but the
// report has at least one account, a low-severity account-review issue is
// emitted so the pipeline always surfaces something actionable.
func (c *Classifier) Classify(r *domain.CreditReport) []domain.Issue {
	var issues []domain.Issue
	for _, rl := range rules {
		issues = append(issues, rl(c, r)...)
	}

	if len(issues) == 0 && len(r.Accounts) > 0 {
		issues = append(issues, c.accountReviewFallback(r))
	}

	for i := range issues {
		issues[i].ID = fmt.Sprintf("issue-%d", i+1)
		issues[i].LegalCitations = legal.Resolve(issues[i].Type)
		if issues[i].Bureau == "" {
			issues[i].Bureau = r.PrimaryBureau
		}
	}
	return issues
}

// personalInfoAnomalies flags comma-joined multi-value identity fields.
func (c *Classifier) personalInfoAnomalies(r *domain.CreditReport) []domain.Issue {
	var issues []domain.Issue
	for _, field := range []string{"name", "address", "employer"} {
		values, ok := r.PersonalInfo.MultiValueFields[field]
		if !ok {
			continue
		}
		issues = append(issues, domain.Issue{
			Type:     domain.IssuePersonalInfo,
			Severity: domain.SeverityMedium,
			Title:    fmt.Sprintf("Multiple %s values on file", field),
			Description: fmt.Sprintf(
				"The report lists more than one %s: %s. Mixed identity data can indicate a merged or mixed credit file and should be corrected.",
				field, strings.Join(values, "; ")),
		})
	}
	return issues
}

// negativeAccounts flags tradelines whose payment status or remarks carry
// late/derogatory vocabulary, classified as collection, charge-off or late
// payment by the strongest vocabulary hit.
func (c *Classifier) negativeAccounts(r *domain.CreditReport) []domain.Issue {
	var issues []domain.Issue
	for _, a := range r.Accounts {
		combined := strings.ToLower(a.PaymentStatus + " " + strings.Join(a.Remarks, " ") + " " + a.AccountType)
		if !a.IsNegative && !hasAny(combined, "late", "delinquent", "past due", "collection", "charge off", "charge-off", "charged off") {
			continue
		}

		issueType := domain.IssueLatePayment
		title := fmt.Sprintf("Late payment reported on %s", a.AccountName)
		desc := fmt.Sprintf("The account %q carries a derogatory payment status (%s).", a.AccountName, valueOr(a.PaymentStatus, "unspecified"))
		switch {
		case hasAny(combined, "collection"):
			issueType = domain.IssueCollection
			title = fmt.Sprintf("Collection account: %s", a.AccountName)
			desc = fmt.Sprintf("The account %q is reported as a collection. Collection tradelines must be validated and accurately reported.", a.AccountName)
		case hasAny(combined, "charge off", "charge-off", "charged off"):
			issueType = domain.IssueChargeOff
			title = fmt.Sprintf("Charge-off reported on %s", a.AccountName)
			desc = fmt.Sprintf("The account %q is reported as charged off.", a.AccountName)
		}

		issues = append(issues, domain.Issue{
			Type:        issueType,
			Severity:    domain.SeverityHigh,
			Title:       title,
			Description: desc,
			Account:     &domain.AccountRef{Name: a.AccountName, Number: a.AccountNumber},
			Bureau:      a.Bureau,
		})
	}
	return issues
}

// studentLoanVocab marks an account name as student-loan-like.
var studentLoanVocab = []string{
	"student", "navient", "nelnet", "sallie mae", "dept of ed",
	"department of education", "mohela", "great lakes", "fedloan", "edfinancial",
}

// duplicateStudentLoans groups student-loan accounts by balance rounded to
// the nearest whole currency unit; each group of two or more becomes one
// duplicate-account issue naming all members.
func (c *Classifier) duplicateStudentLoans(r *domain.CreditReport) []domain.Issue {
	groups := make(map[int64][]domain.Account)
	var order []int64
	for _, a := range r.Accounts {
		if a.Balance == nil || !hasAny(strings.ToLower(a.AccountName+" "+a.AccountType), studentLoanVocab...) {
			continue
		}
		key := int64(math.Round(*a.Balance))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], a)
	}

	var issues []domain.Issue
	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.AccountName
		}
		issues = append(issues, domain.Issue{
			Type:     domain.IssueDuplicateAccount,
			Severity: domain.SeverityHigh,
			Title:    "Duplicate student loan reporting",
			Description: fmt.Sprintf(
				"%d student loan accounts report the same balance of $%d and appear to be the same underlying loan: %s.",
				len(members), key, strings.Join(names, ", ")),
			Account: &domain.AccountRef{Name: members[0].AccountName, Number: members[0].AccountNumber},
			Bureau:  members[0].Bureau,
		})
	}
	return issues
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// staleBankruptcies flags bankruptcy records (and bankruptcy-flagged
// accounts) whose filing/report year is more than seven years old.
func (c *Classifier) staleBankruptcies(r *domain.CreditReport) []domain.Issue {
	currentYear := c.now().Year()
	var issues []domain.Issue

	flag := func(label, dated, bureauName string) {
		year, ok := extractYear(dated)
		if !ok || currentYear-year <= staleBankruptcyYears {
			return
		}
		issues = append(issues, domain.Issue{
			Type:     domain.IssueBankruptcy,
			Severity: domain.SeverityHigh,
			Title:    "Outdated bankruptcy on file",
			Description: fmt.Sprintf(
				"%s is dated %d, more than %d years ago, and is likely past its permissible reporting window.",
				label, year, staleBankruptcyYears),
			Bureau: bureauName,
		})
	}

	for _, pr := range r.PublicRecords {
		if strings.Contains(strings.ToLower(pr.RecordType), "bankruptcy") {
			flag(pr.RecordType, pr.DateReported, pr.Bureau)
		}
	}
	for _, a := range r.Accounts {
		combined := strings.ToLower(a.AccountName + " " + strings.Join(a.Remarks, " "))
		if strings.Contains(combined, "bankruptcy") {
			dated := a.DateOpened
			if dated == "" {
				dated = a.DateReported
			}
			flag("The account "+a.AccountName, dated, a.Bureau)
		}
	}
	return issues
}

// staleInquiries flags inquiries older than one year; inquiries with
// unparseable dates are left alone rather than guessed at.
func (c *Classifier) staleInquiries(r *domain.CreditReport) []domain.Issue {
	now := c.now()
	var issues []domain.Issue
	for _, inq := range r.Inquiries {
		when, ok := parseLooseDate(inq.InquiryDate)
		if !ok || now.Sub(when) <= staleInquiryAge {
			continue
		}
		issues = append(issues, domain.Issue{
			Type:     domain.IssueInquiry,
			Severity: domain.SeverityMedium,
			Title:    fmt.Sprintf("Aged inquiry from %s", inq.Creditor),
			Description: fmt.Sprintf(
				"The inquiry by %q on %s is over a year old and no longer reflects current credit-seeking behavior; its permissible purpose can be challenged.",
				inq.Creditor, inq.InquiryDate),
			Bureau: inq.Bureau,
		})
	}
	return issues
}

// missingCriticalDates flags accounts lacking both an open date and a
// reported date.
func (c *Classifier) missingCriticalDates(r *domain.CreditReport) []domain.Issue {
	var issues []domain.Issue
	for _, a := range r.Accounts {
		if a.DateOpened != "" || a.DateReported != "" {
			continue
		}
		issues = append(issues, domain.Issue{
			Type:     domain.IssueMissingDates,
			Severity: domain.SeverityMedium,
			Title:    fmt.Sprintf("Incomplete reporting on %s", a.AccountName),
			Description: fmt.Sprintf(
				"The account %q reports neither an open date nor a report date; incomplete tradelines cannot be verified as accurate.",
				a.AccountName),
			Account: &domain.AccountRef{Name: a.AccountName, Number: a.AccountNumber},
			Bureau:  a.Bureau,
		})
	}
	return issues
}

// accountReviewFallback emits the single low-confidence issue used when no
// rule fired but accounts exist.
func (c *Classifier) accountReviewFallback(r *domain.CreditReport) domain.Issue {
	a := r.Accounts[0]
	return domain.Issue{
		Type:     domain.IssueAccountReview,
		Severity: domain.SeverityLow,
		Title:    fmt.Sprintf("General review of %s", a.AccountName),
		Description: fmt.Sprintf(
			"No specific derogatory marks were identified, but the account %q can still be verified for accuracy of balance, dates and status.",
			a.AccountName),
		Account: &domain.AccountRef{Name: a.AccountName, Number: a.AccountNumber},
		Bureau:  a.Bureau,
	}
}

var looseDateLayouts = []string{
	"01/02/2006", "1/2/2006", "01/02/06", "01-02-2006", "1-2-2006",
	"2006-01-02", "Jan 2, 2006", "Jan 2 2006", "January 2, 2006",
}

func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractYear(s string) (int, bool) {
	m := yearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	var year int
	fmt.Sscanf(m, "%d", &year)
	return year, true
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func hasAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
