package domain

import "time"

// LetterStatus is the lifecycle state of a dispute letter.
type LetterStatus string

const (
	LetterDraft LetterStatus = "draft"
	LetterReady LetterStatus = "ready"
	LetterSent  LetterStatus = "sent"
)

// Resolution tiers record which rung of the template ladder produced a
// letter's body.
const (
	ResolutionExact      = "exact"
	ResolutionPartial    = "partial"
	ResolutionGeneric    = "generic"
	ResolutionStructural = "structural"
)

// LetterTemplate is one entry of the template corpus. Treated as immutable
// once fetched; the corpus is cached for the process lifetime.
type LetterTemplate struct {
	Name string `json:"name" yaml:"name"`
	// Type maps to an Issue.Type bucket ("late_payment", "general", ...).
	Type string `json:"type" yaml:"type"`
	// Body contains brace-delimited placeholder tokens ({CONSUMER_NAME},
	// {ACCOUNT_NAME}, ...) replaced during composition.
	Body string `json:"body" yaml:"body"`
}

// Letter is a composed dispute letter. Content is final, token-free text and
// is never empty: the composer's fallback chain guarantees it.
type Letter struct {
	ID            string       `json:"id"`
	ReportID      string       `json:"report_id,omitempty"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Bureau        string       `json:"bureau,omitempty"`
	AccountName   string       `json:"account_name,omitempty"`
	AccountNumber string       `json:"account_number,omitempty"`
	ErrorType     string       `json:"error_type,omitempty"`
	Resolution    string       `json:"resolution,omitempty"`
	Status        LetterStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}
