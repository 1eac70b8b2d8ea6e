// Package legal maps issue types to statutory citations. The table is static
// reference data; resolution is a lookup plus string formatting, heuristic
// rather than legally authoritative.
package legal

import "github.com/riyahstaff/credifyai-sub001/internal/domain"

// citationsByType holds the per-type citations. The "all" bucket (general
// accuracy and reinvestigation duties) is appended to every resolution.
var citationsByType = map[domain.IssueType][]domain.LegalCitation{
	domain.IssueLatePayment: {
		{Law: "FCRA", Section: "623(a)(3)", CitationText: "Furnishers must not report information they know or should know is inaccurate, including payment history."},
		{Law: "FCRA", Section: "605(a)(5)", CitationText: "Adverse items of information, other than records of convictions, may not be reported after seven years."},
	},
	domain.IssueCollection: {
		{Law: "FDCPA", Section: "809(b)", CitationText: "A debt collector must cease collection until the debt is validated after a timely written dispute."},
		{Law: "FCRA", Section: "623(a)(3)", CitationText: "A furnisher must mark a disputed account as disputed when reporting it to a bureau."},
	},
	domain.IssueChargeOff: {
		{Law: "FCRA", Section: "605(a)(4)", CitationText: "Accounts placed for collection or charged to profit and loss may not be reported after seven years."},
	},
	domain.IssueInquiry: {
		{Law: "FCRA", Section: "604(a)(3)", CitationText: "A consumer report may be furnished only with a permissible purpose, such as a credit transaction initiated by the consumer."},
		{Law: "FCRA", Section: "605(a)(8)", CitationText: "Inquiries older than two years may not appear on a consumer report."},
	},
	domain.IssueBankruptcy: {
		{Law: "FCRA", Section: "605(a)(1)", CitationText: "Bankruptcy cases may not be reported more than ten years after the date of entry of the order for relief."},
	},
	domain.IssuePersonalInfo: {
		{Law: "FCRA", Section: "611(a)(1)", CitationText: "A consumer may dispute incomplete or inaccurate identifying information, which the bureau must reinvestigate."},
	},
	domain.IssueDuplicateAccount: {
		{Law: "FCRA", Section: "623(a)(2)", CitationText: "A furnisher must correct and update information to keep reporting complete and accurate; the same obligation precludes duplicate tradelines."},
	},
	domain.IssueMissingDates: {
		{Law: "FCRA", Section: "623(a)(2)", CitationText: "Furnished information must be complete; tradelines missing required date fields are incomplete."},
	},
	domain.IssueAccountReview: {
		{Law: "FCRA", Section: "609(a)", CitationText: "A consumer is entitled to all information in their file and may request verification of any item."},
	},
}

// wildcard citations apply to every issue type.
var wildcard = []domain.LegalCitation{
	{Law: "FCRA", Section: "607(b)", CitationText: "Consumer reporting agencies must follow reasonable procedures to assure maximum possible accuracy of consumer reports."},
	{Law: "FCRA", Section: "611", CitationText: "Bureaus must reinvestigate disputed information free of charge, generally within 30 days, and delete information that cannot be verified."},
}

// Resolve returns the citations for an issue type: the per-type entries
// followed by the wildcard duties. Unknown types still receive the wildcard
// citations; the result is never empty.
func Resolve(t domain.IssueType) []domain.LegalCitation {
	typed := citationsByType[t]
	out := make([]domain.LegalCitation, 0, len(typed)+len(wildcard))
	out = append(out, typed...)
	out = append(out, wildcard...)
	return out
}
