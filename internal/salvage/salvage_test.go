package salvage_test

import (
	"strings"
	"testing"

	"github.com/riyahstaff/credifyai-sub001/internal/salvage"
)

func TestRecover_PlainText(t *testing.T) {
	s := salvage.New(0, nil)

	in := "CREDIT REPORT\nAccount Name: Chase Bank\nBalance: $1,200\nPayment Status: Current"
	out := s.Recover(in, salvage.Options{Format: "text"})

	if !strings.Contains(out, "Chase Bank") {
		t.Errorf("expected plain text to survive, got %q", out)
	}
}

func TestRecover_HTML(t *testing.T) {
	s := salvage.New(0, nil)

	in := `<html><head><style>.x{color:red}</style></head><body>
		<h1>Experian Credit Report</h1>
		<div>Account Name: Capital One</div>
		<div>Balance: $500.00 and some surrounding prose for length</div>
	</body></html>`
	out := s.Recover(in, salvage.Options{Format: "html"})

	if strings.Contains(out, "<div>") || strings.Contains(out, "color:red") {
		t.Errorf("markup leaked into salvaged text: %q", out)
	}
	if !strings.Contains(out, "Capital One") {
		t.Errorf("expected HTML text content, got %q", out)
	}
}

func TestRecover_PDFStructuresStripped(t *testing.T) {
	s := salvage.New(0, nil)

	in := "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nstream\n\x00\x01\x02binary\nendstream\n" +
		"TRANSUNION CREDIT REPORT\nAccount Number: 1234\nBalance: $900 reported as of last month\n%%EOF"
	out := s.Recover(in, salvage.Options{Format: "pdf"})

	if strings.Contains(out, "endstream") || strings.Contains(out, "%PDF") {
		t.Errorf("pdf control structures leaked: %q", out)
	}
	if !strings.Contains(out, "TRANSUNION CREDIT REPORT") {
		t.Errorf("expected report text to survive, got %q", out)
	}
}

func TestRecover_KeywordWindowsOnGarbled(t *testing.T) {
	s := salvage.New(30, nil)

	junk := strings.Repeat("\x7f\x03zq9 ", 200)
	in := junk + " EQUIFAX balance due " + junk + " ACCOUNT 4421 " + junk
	out := s.Recover(in, salvage.Options{})

	if !strings.Contains(strings.ToUpper(out), "EQUIFAX") {
		t.Errorf("expected keyword window around EQUIFAX, got %q", out)
	}
	if len(out) >= len(in) {
		t.Error("expected garbage outside keyword windows to be discarded")
	}
}

func TestRecover_KeywordWindowsOnCaseWideningRunes(t *testing.T) {
	s := salvage.New(0, nil)

	// "ȿ" upper-cases to a rune with a longer UTF-8 encoding. Mixed with
	// non-text symbols the input fails the strip stage's readability check
	// and reaches the keyword scan, which must slice the original text at
	// the right offsets regardless of how the fold shifts byte positions.
	in := strings.Repeat("ȿ†", 400) + " BALANCE $321 due"
	out := s.Recover(in, salvage.Options{})

	if !strings.Contains(strings.ToUpper(out), "BALANCE") {
		t.Errorf("expected keyword window around BALANCE, got %q", out)
	}
}

func TestRecover_NeverFails(t *testing.T) {
	s := salvage.New(0, nil)

	for _, in := range []string{"", "   ", "\x00\x01\x02", "<<<>>>", strings.Repeat("\xff", 512)} {
		out := s.Recover(in, salvage.Options{Format: "pdf"})
		_ = out // any string, including empty, is acceptable; just must not panic
	}
}
