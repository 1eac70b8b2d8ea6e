package extract

import "github.com/riyahstaff/credifyai-sub001/internal/domain"

// Result bundles the four extractor outputs for the assembler.
type Result struct {
	Personal      domain.PersonalInfo
	Accounts      []domain.Account
	Inquiries     []domain.Inquiry
	PublicRecords []domain.PublicRecord

	// Fallbacks names the zero-record fallback passes that fired, for
	// metrics ("accounts:known-creditor", "accounts:placeholder").
	Fallbacks []string
}

// Run executes the four independent extractors over salvaged text.
func Run(text string, presence domain.BureauPresence) Result {
	res := Result{
		Personal:      Personal(text, presence),
		Inquiries:     Inquiries(text, presence),
		PublicRecords: PublicRecords(text, presence),
	}

	accounts, fallback := Accounts(text, presence)
	res.Accounts = accounts
	if fallback != "" {
		res.Fallbacks = append(res.Fallbacks, "accounts:"+fallback)
	}
	return res
}
