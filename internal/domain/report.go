// Package domain defines the core business entities for the credit report
// analyzer. These models are independent of external services and represent
// the canonical data structures used throughout the pipeline.
package domain

import (
	"encoding/json"
	"time"
)

// Bureau name constants. These are the only three consumer bureaus the
// detector knows about; anything else is "unknown".
const (
	BureauExperian   = "Experian"
	BureauEquifax    = "Equifax"
	BureauTransUnion = "TransUnion"
)

// BureauPresence records which bureaus were detected in the raw report text.
type BureauPresence struct {
	Experian   bool `json:"experian"`
	Equifax    bool `json:"equifax"`
	TransUnion bool `json:"transunion"`
}

// Any reports whether at least one bureau was detected.
func (b BureauPresence) Any() bool {
	return b.Experian || b.Equifax || b.TransUnion
}

// Count returns how many bureaus were detected.
func (b BureauPresence) Count() int {
	n := 0
	for _, present := range []bool{b.Experian, b.Equifax, b.TransUnion} {
		if present {
			n++
		}
	}
	return n
}

// Sole returns the bureau name if exactly one bureau is present.
func (b BureauPresence) Sole() (string, bool) {
	if b.Count() != 1 {
		return "", false
	}
	switch {
	case b.Experian:
		return BureauExperian, true
	case b.Equifax:
		return BureauEquifax, true
	default:
		return BureauTransUnion, true
	}
}

// PersonalInfo holds consumer identity data recovered from the report.
// Every field is optional; absence is not an error.
type PersonalInfo struct {
	Name              string   `json:"name,omitempty"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	Zip               string   `json:"zip,omitempty"`
	PreviousAddresses []string `json:"previous_addresses,omitempty"`
	Employers         []string `json:"employers,omitempty"`

	// MultiValueFields maps a field label ("name", "address", "employer")
	// to comma-split values when the extractor saw more than one value
	// joined into a single field. Consumed by the issue classifier as a
	// personal-info anomaly signal.
	MultiValueFields map[string][]string `json:"multi_value_fields,omitempty"`
}

// Account is one tradeline recovered from the report.
// AccountName is never empty: the extractor falls back to a placeholder
// ("Unknown Account" or a generic type label) rather than emitting a
// nameless record.
type Account struct {
	AccountName   string   `json:"account_name"`
	AccountNumber string   `json:"account_number,omitempty"`
	AccountType   string   `json:"account_type,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
	CreditLimit   *float64 `json:"credit_limit,omitempty"`
	PaymentStatus string   `json:"payment_status,omitempty"`
	Status        string   `json:"status,omitempty"` // open / closed
	DateOpened    string   `json:"date_opened,omitempty"`
	DateReported  string   `json:"date_reported,omitempty"`
	LastActivity  string   `json:"last_activity,omitempty"`
	IsNegative    bool     `json:"is_negative"`
	Bureau        string   `json:"bureau,omitempty"`
	Remarks       []string `json:"remarks,omitempty"`
}

// MarshalJSON emits read-only compatibility aliases (currentBalance) next to
// the canonical fields. The aliases exist only on the wire; Balance is the
// single stored field.
func (a Account) MarshalJSON() ([]byte, error) {
	type alias Account
	return json.Marshal(struct {
		alias
		CurrentBalance *float64 `json:"currentBalance,omitempty"`
	}{
		alias:          alias(a),
		CurrentBalance: a.Balance,
	})
}

// Inquiry is one credit inquiry row.
type Inquiry struct {
	InquiryDate string `json:"inquiry_date,omitempty"`
	Creditor    string `json:"creditor"`
	Bureau      string `json:"bureau,omitempty"`
}

// MarshalJSON emits the creditorName alias kept for older consumers.
func (i Inquiry) MarshalJSON() ([]byte, error) {
	type alias Inquiry
	return json.Marshal(struct {
		alias
		CreditorName string `json:"creditorName,omitempty"`
	}{
		alias:        alias(i),
		CreditorName: i.Creditor,
	})
}

// PublicRecord is one public record entry (bankruptcy, lien, judgment).
type PublicRecord struct {
	RecordType   string `json:"record_type"`
	Bureau       string `json:"bureau,omitempty"`
	DateReported string `json:"date_reported,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ReportSummary holds counts and utilization computed at assembly time.
type ReportSummary struct {
	TotalAccounts     int            `json:"total_accounts"`
	OpenAccounts      int            `json:"open_accounts"`
	ClosedAccounts    int            `json:"closed_accounts"`
	NegativeAccounts  int            `json:"negative_accounts"`
	InquiryCount      int            `json:"inquiry_count"`
	PublicRecordCount int            `json:"public_record_count"`
	AccountTypes      map[string]int `json:"account_types,omitempty"`

	// Utilization is sum(balance)/sum(limit) over open revolving accounts,
	// nil when no open revolving account carries a credit limit.
	Utilization *float64 `json:"utilization,omitempty"`
}

// CreditReport is the assembled report model. It is created once per upload
// and immutable after assembly; issues are appended during classification and
// never mutated afterwards.
//
// Invariants: PrimaryBureau, when set, names a bureau marked present in
// BureausPresent; Accounts may be empty but is never nil.
type CreditReport struct {
	ID             string         `json:"id"`
	BureausPresent BureauPresence `json:"bureaus_present"`
	PrimaryBureau  string         `json:"primary_bureau,omitempty"`
	PersonalInfo   PersonalInfo   `json:"personal_info"`
	Accounts       []Account      `json:"accounts"`
	Inquiries      []Inquiry      `json:"inquiries,omitempty"`
	PublicRecords  []PublicRecord `json:"public_records,omitempty"`
	RawText        string         `json:"raw_text,omitempty"`
	Issues         []Issue        `json:"issues"`
	Summary        ReportSummary  `json:"summary"`
	CreatedAt      time.Time      `json:"created_at"`
}
