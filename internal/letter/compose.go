package letter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riyahstaff/credifyai-sub001/internal/bureau"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// leftoverTokenRe matches any brace-delimited token that survived
// substitution. Stripped to empty so no raw token syntax is ever emitted.
var leftoverTokenRe = regexp.MustCompile(`\{[A-Za-z0-9_ .-]*\}`)

// Composer turns issues plus a report into finished letters. The clock is
// injected so letter dates are deterministic under test.
type Composer struct {
	resolver *Resolver
	now      func() time.Time
}

func NewComposer(resolver *Resolver, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{resolver: resolver, now: now}
}

// Compose produces one letter per issue. An empty issue list still yields a
// single general verification letter: callers always receive at least one
// letter with non-empty, token-free content.
func (c *Composer) Compose(ctx context.Context, r *domain.CreditReport, issues []domain.Issue) []domain.Letter {
	if len(issues) == 0 {
		return []domain.Letter{c.generalLetter(ctx, r)}
	}

	letters := make([]domain.Letter, 0, len(issues))
	for _, issue := range issues {
		letters = append(letters, c.composeOne(ctx, r, issue))
	}
	return letters
}

func (c *Composer) composeOne(ctx context.Context, r *domain.CreditReport, issue domain.Issue) domain.Letter {
	bureauName := issue.Bureau
	if bureauName == "" {
		bureauName = r.PrimaryBureau
	}

	var body string
	tpl, tier := c.resolver.Resolve(ctx, issue.Type)
	if tier != domain.ResolutionStructural {
		body = c.fill(tpl.Body, r, &issue, bureauName)
	} else {
		body = c.structuralBody(r, &issue, bureauName)
	}
	if strings.TrimSpace(body) == "" {
		body = c.minimalBody(bureauName)
		tier = domain.ResolutionStructural
	}

	letter := domain.Letter{
		ID:         uuid.New().String(),
		ReportID:   r.ID,
		Title:      valueOr(issue.Title, "Credit Report Dispute"),
		Content:    body,
		Bureau:     bureauName,
		ErrorType:  string(issue.Type),
		Resolution: tier,
		Status:     domain.LetterDraft,
		CreatedAt:  c.now().UTC(),
	}
	if issue.Account != nil {
		letter.AccountName = issue.Account.Name
		letter.AccountNumber = issue.Account.Number
	}
	return letter
}

// generalLetter is the empty-issue-list path: a request to verify the whole
// file rather than a specific item.
func (c *Composer) generalLetter(ctx context.Context, r *domain.CreditReport) domain.Letter {
	issue := domain.Issue{
		Type:        domain.IssueAccountReview,
		Title:       "Credit Report Verification Request",
		Description: "I am requesting verification of all information contained in my credit file.",
	}
	return c.composeOne(ctx, r, issue)
}

// fill substitutes the recognized token vocabulary into a template body, then
// strips anything token-shaped that remains.
func (c *Composer) fill(body string, r *domain.CreditReport, issue *domain.Issue, bureauName string) string {
	replacements := c.tokenValues(r, issue, bureauName)
	pairs := make([]string, 0, len(replacements)*2)
	for token, value := range replacements {
		pairs = append(pairs, token, value)
	}
	out := strings.NewReplacer(pairs...).Replace(body)
	out = leftoverTokenRe.ReplaceAllString(out, "")
	return tidy(out)
}

// tokenValues is the closed substitution vocabulary. Unavailable data points
// substitute to empty string; the consumer signature fields fall back to
// literal fill-in markers so the printed letter shows where to write.
func (c *Composer) tokenValues(r *domain.CreditReport, issue *domain.Issue, bureauName string) map[string]string {
	pi := r.PersonalInfo

	accountName, accountNumber := "", ""
	if issue.Account != nil {
		accountName = issue.Account.Name
		accountNumber = issue.Account.Number
	}

	return map[string]string{
		"{CONSUMER_NAME}":       valueOr(pi.Name, "[YOUR NAME]"),
		"{CONSUMER_ADDRESS}":    valueOr(pi.Address, "[YOUR ADDRESS]"),
		"{CONSUMER_CITY}":       pi.City,
		"{CONSUMER_STATE}":      pi.State,
		"{CONSUMER_ZIP}":        pi.Zip,
		"{DATE}":                c.now().Format("January 2, 2006"),
		"{BUREAU_NAME}":         valueOr(bureauName, "Credit Bureau"),
		"{BUREAU_ADDRESS}":      bureauAddress(bureauName),
		"{REPORT_NUMBER}":       r.ID,
		"{ACCOUNT_NAME}":        accountName,
		"{ACCOUNT_NUMBER}":      accountNumber,
		"{DISPUTE_REASON}":      issue.Title,
		"{DISPUTE_DESCRIPTION}": issue.Description,
		"{LEGAL_CITATIONS}":     citationBlock(issue.LegalCitations),
		"{DISPUTED_ITEMS}":      disputedItemBlock(issue),
	}
}

// structuralBody synthesizes a letter with no template at all: fixed skeleton,
// literal fill-in markers for missing consumer data.
func (c *Composer) structuralBody(r *domain.CreditReport, issue *domain.Issue, bureauName string) string {
	pi := r.PersonalInfo
	var b strings.Builder

	b.WriteString(valueOr(pi.Name, "[YOUR NAME]") + "\n")
	b.WriteString(valueOr(pi.Address, "[YOUR ADDRESS]") + "\n")
	if line := cityLine(pi); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + c.now().Format("January 2, 2006") + "\n\n")
	b.WriteString(bureauAddress(bureauName) + "\n\n")

	b.WriteString("Re: Dispute of Inaccurate Information")
	if r.ID != "" {
		b.WriteString(" (Report ID " + r.ID + ")")
	}
	b.WriteString("\n\nTo Whom It May Concern:\n\n")

	b.WriteString("I am writing to dispute the following item on my credit report, which I believe to be inaccurate or incomplete.\n\n")
	b.WriteString(disputedItemBlock(issue) + "\n")

	if block := citationBlock(issue.LegalCitations); block != "" {
		b.WriteString("This dispute is supported by the following provisions:\n")
		b.WriteString(block + "\n")
	}

	b.WriteString("Under the Fair Credit Reporting Act you are required to investigate this dispute and correct or delete any information that cannot be verified, generally within 30 days of receipt. Please send me written confirmation of the results of your investigation and a corrected copy of my credit report.\n\n")
	b.WriteString("Sincerely,\n\n")
	b.WriteString(valueOr(pi.Name, "[YOUR NAME]") + "\n")

	return tidy(b.String())
}

// minimalBody is the last resort: bureau, one dispute sentence, signature.
func (c *Composer) minimalBody(bureauName string) string {
	return fmt.Sprintf(
		"%s\n\nTo Whom It May Concern:\n\nI dispute inaccurate information on my credit report and request an investigation under the Fair Credit Reporting Act.\n\nSincerely,\n\n[YOUR NAME]",
		valueOr(bureauName, "Credit Bureau"))
}

func disputedItemBlock(issue *domain.Issue) string {
	var b strings.Builder
	if issue.Account != nil && issue.Account.Name != "" {
		b.WriteString("Account: " + issue.Account.Name + "\n")
		if issue.Account.Number != "" {
			b.WriteString("Account Number: " + issue.Account.Number + "\n")
		}
	}
	if issue.Title != "" {
		b.WriteString("Reason: " + issue.Title + "\n")
	}
	if issue.Description != "" {
		b.WriteString(issue.Description + "\n")
	}
	return b.String()
}

func citationBlock(citations []domain.LegalCitation) string {
	if len(citations) == 0 {
		return ""
	}
	lines := make([]string, len(citations))
	for i, c := range citations {
		lines[i] = fmt.Sprintf("- %s Section %s: %s", c.Law, c.Section, c.CitationText)
	}
	return strings.Join(lines, "\n") + "\n"
}

func cityLine(pi domain.PersonalInfo) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{pi.City, pi.State, pi.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func bureauAddress(name string) string {
	if name == "" {
		return "[BUREAU ADDRESS]"
	}
	return bureau.Address(name)
}

var multiBlankLinesRe = regexp.MustCompile(`\n{3,}`)

// tidy collapses the blank-line runs left behind by empty substitutions.
func tidy(s string) string {
	s = multiBlankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s) + "\n"
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
