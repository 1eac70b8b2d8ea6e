package domain

// IssueType is the closed set of dispute categories the classifier emits.
type IssueType string

const (
	IssueLatePayment      IssueType = "late_payment"
	IssueCollection       IssueType = "collection"
	IssueChargeOff        IssueType = "charge_off"
	IssueInquiry          IssueType = "inquiry"
	IssueBankruptcy       IssueType = "bankruptcy"
	IssuePersonalInfo     IssueType = "personal_info"
	IssueDuplicateAccount IssueType = "duplicate_account"
	IssueMissingDates     IssueType = "missing_dates"
	IssueAccountReview    IssueType = "account_review"
)

// Severity ranks how strongly an issue supports a dispute.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// AccountRef identifies the account an issue is about. It carries name and
// number only; it is not an owning pointer into the report.
type AccountRef struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
}

// LegalCitation is a statutory reference attached to an issue. Static
// reference data looked up by issue type.
type LegalCitation struct {
	Law          string `json:"law"`
	Section      string `json:"section"`
	CitationText string `json:"citation_text"`
}

// Issue is one specific, typed, cited reason to dispute an item.
// Issues are created by the classifier, never mutated after creation, and
// consumed read-only by letter generation.
type Issue struct {
	ID             string          `json:"id"`
	Type           IssueType       `json:"type"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Severity       Severity        `json:"severity"`
	Account        *AccountRef     `json:"account,omitempty"`
	Bureau         string          `json:"bureau,omitempty"`
	LegalCitations []LegalCitation `json:"legal_citations,omitempty"`
}
