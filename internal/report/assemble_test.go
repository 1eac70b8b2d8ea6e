package report_test

import (
	"testing"
	"time"

	"github.com/riyahstaff/credifyai-sub001/internal/bureau"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/extract"
	"github.com/riyahstaff/credifyai-sub001/internal/report"
)

func f(v float64) *float64 { return &v }

func TestAssemble_SummaryCounts(t *testing.T) {
	res := extract.Result{
		Accounts: []domain.Account{
			{AccountName: "Chase", AccountType: "credit card", Status: "open", Balance: f(1000), CreditLimit: f(4000)},
			{AccountName: "Discover", AccountType: "credit card", Status: "open", Balance: f(500), CreditLimit: f(1000)},
			{AccountName: "Old Card", AccountType: "credit card", Status: "closed", Balance: f(900), CreditLimit: f(900)},
			{AccountName: "Midland", AccountType: "collection", IsNegative: true},
		},
		Inquiries:     []domain.Inquiry{{Creditor: "Cap One", InquiryDate: "01/01/2024"}},
		PublicRecords: []domain.PublicRecord{{RecordType: "Tax Lien"}},
	}
	det := bureau.Detection{Present: domain.BureauPresence{TransUnion: true}, Primary: domain.BureauTransUnion}

	r := report.Assemble(res, det, "raw", time.Now())

	if r.Summary.TotalAccounts != 4 || r.Summary.OpenAccounts != 2 || r.Summary.ClosedAccounts != 1 {
		t.Errorf("counts = %+v", r.Summary)
	}
	if r.Summary.NegativeAccounts != 1 {
		t.Errorf("negative = %d", r.Summary.NegativeAccounts)
	}
	if r.Summary.InquiryCount != 1 || r.Summary.PublicRecordCount != 1 {
		t.Errorf("inquiry/public counts = %+v", r.Summary)
	}

	// Closed revolving accounts are excluded: 1500 / 5000.
	if r.Summary.Utilization == nil || *r.Summary.Utilization != 0.3 {
		t.Errorf("utilization = %v", r.Summary.Utilization)
	}
	if r.Summary.AccountTypes["credit card"] != 3 {
		t.Errorf("type histogram = %v", r.Summary.AccountTypes)
	}
}

func TestAssemble_UtilizationDivideByZeroGuard(t *testing.T) {
	res := extract.Result{
		Accounts: []domain.Account{{AccountName: "Chase", AccountType: "credit card", Balance: f(100)}},
	}
	r := report.Assemble(res, bureau.Detection{}, "", time.Now())
	if r.Summary.Utilization != nil {
		t.Errorf("expected nil utilization with no limits, got %v", *r.Summary.Utilization)
	}
}

func TestAssemble_Invariants(t *testing.T) {
	// Primary not marked present must be dropped, accounts never nil.
	det := bureau.Detection{Primary: domain.BureauEquifax}
	r := report.Assemble(extract.Result{}, det, "", time.Now())

	if r.PrimaryBureau != "" {
		t.Errorf("primary %q kept despite absent bureau", r.PrimaryBureau)
	}
	if r.Accounts == nil {
		t.Error("accounts must never be nil")
	}
	if r.ID == "" {
		t.Error("report must get an id")
	}
}
