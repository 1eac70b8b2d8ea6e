package extract_test

import (
	"testing"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/extract"
)

func TestInquiries_ThreeLayouts(t *testing.T) {
	text := `INQUIRIES

03/12/2024 Capital One
Synchrony Bank 01/05/2024
Discover Financial    11/20/2023
`
	inquiries := extract.Inquiries(text, domain.BureauPresence{})
	if len(inquiries) != 3 {
		t.Fatalf("expected 3 inquiries, got %d: %+v", len(inquiries), inquiries)
	}

	want := map[string]string{
		"Capital One":        "03/12/2024",
		"Synchrony Bank":     "01/05/2024",
		"Discover Financial": "11/20/2023",
	}
	for _, inq := range inquiries {
		if want[inq.Creditor] != inq.InquiryDate {
			t.Errorf("inquiry %q: date %q, want %q", inq.Creditor, inq.InquiryDate, want[inq.Creditor])
		}
	}
}

func TestInquiries_PlaceholderRowsDiscarded(t *testing.T) {
	text := `INQUIRIES

03/12/2024 N/A
04/01/2024 -
05/01/2024 X
06/02/2024 Chase
`
	inquiries := extract.Inquiries(text, domain.BureauPresence{})
	if len(inquiries) != 1 {
		t.Fatalf("expected 1 surviving inquiry, got %+v", inquiries)
	}
	if inquiries[0].Creditor != "Chase" {
		t.Errorf("creditor = %q", inquiries[0].Creditor)
	}
}

func TestInquiries_SoleBureauAttributed(t *testing.T) {
	text := "INQUIRIES\n\n02/02/2024 Capital One\n"
	inquiries := extract.Inquiries(text, domain.BureauPresence{Experian: true})
	if len(inquiries) != 1 || inquiries[0].Bureau != domain.BureauExperian {
		t.Fatalf("expected Experian attribution, got %+v", inquiries)
	}
}
