package extract_test

import (
	"strings"
	"testing"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/extract"
)

const accountSectionFixture = `CREDIT REPORT

ACCOUNT INFORMATION

Account Name: Chase Bank
Account Number: 4421889012
Type: credit card
Balance: $1,250.00
Credit Limit: $5,000.00
Payment Status: Current
Date Opened: 01/15/2019
Date Reported: 03/01/2024

Account Name: Midland Credit Management
Account Number: 7733210
Balance: $640
Payment Status: In Collection
Remarks: Placed for collection

INQUIRIES

03/12/2024 Capital One
`

func TestAccounts_SectionExtraction(t *testing.T) {
	accounts, fallback := extract.Accounts(accountSectionFixture, domain.BureauPresence{})

	if fallback != "" {
		t.Fatalf("expected no fallback, got %q", fallback)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d: %+v", len(accounts), accounts)
	}

	chase := accounts[0]
	if chase.AccountName != "Chase Bank" {
		t.Errorf("name = %q", chase.AccountName)
	}
	if chase.AccountNumber != "4421889012" {
		t.Errorf("number = %q", chase.AccountNumber)
	}
	if chase.Balance == nil || *chase.Balance != 1250.00 {
		t.Errorf("balance = %v", chase.Balance)
	}
	if chase.CreditLimit == nil || *chase.CreditLimit != 5000.00 {
		t.Errorf("limit = %v", chase.CreditLimit)
	}
	if chase.IsNegative {
		t.Error("current account flagged negative")
	}

	midland := accounts[1]
	if !midland.IsNegative {
		t.Error("collection account not flagged negative")
	}
	if len(midland.Remarks) == 0 || midland.Remarks[0] != "Placed for collection" {
		t.Errorf("remarks = %v", midland.Remarks)
	}
}

func TestAccounts_BlockFallbackWithoutHeader(t *testing.T) {
	text := `some preamble text

Wells Fargo Home Mortgage
Account Number: 99018822
Balance: $210,000
Date Opened: 06/01/2015

unrelated noise block without any trigger words`

	accounts, fallback := extract.Accounts(text, domain.BureauPresence{})
	if fallback != "" {
		t.Fatalf("expected block fallback (not zero-record fallback), got %q", fallback)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d: %+v", len(accounts), accounts)
	}
	if accounts[0].AccountName != "Wells Fargo Home Mortgage" {
		t.Errorf("first-line name fallback failed: %q", accounts[0].AccountName)
	}
}

func TestAccounts_NameOnlyBlockRejected(t *testing.T) {
	text := `ACCOUNT INFORMATION

Totally A Creditor`

	accounts, _ := extract.Accounts(text, domain.BureauPresence{})
	for _, a := range accounts {
		if a.AccountName == "Totally A Creditor" {
			t.Error("record with name but no other field should be rejected")
		}
	}
}

func TestAccounts_KnownCreditorFallback(t *testing.T) {
	text := "garbled text mentioning NAVIENT somewhere with a balance of $3,200 past due"
	accounts, fallback := extract.Accounts(text, domain.BureauPresence{})

	if fallback != "known-creditor" {
		t.Fatalf("expected known-creditor fallback, got %q", fallback)
	}
	if len(accounts) != 1 || accounts[0].AccountName != "Navient" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if accounts[0].Balance == nil || *accounts[0].Balance != 3200 {
		t.Errorf("expected nearby balance captured, got %v", accounts[0].Balance)
	}
	if !accounts[0].IsNegative {
		t.Error("expected negative vocabulary in window to flag the record")
	}
}

func TestAccounts_KnownCreditorFallbackWithCaseWideningRunes(t *testing.T) {
	// "ȿ" upper-cases to a rune with a longer UTF-8 encoding; the creditor
	// scan must keep its window offsets valid in the original text.
	text := strings.Repeat("ȿ", 200) + " NAVIENT servicing balance $1,200"
	accounts, fallback := extract.Accounts(text, domain.BureauPresence{})

	if fallback != "known-creditor" {
		t.Fatalf("expected known-creditor fallback, got %q", fallback)
	}
	if len(accounts) != 1 || accounts[0].AccountName != "Navient" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if accounts[0].Balance == nil || *accounts[0].Balance != 1200 {
		t.Errorf("expected nearby balance captured, got %v", accounts[0].Balance)
	}
}

func TestAccounts_PlaceholderFallback(t *testing.T) {
	text := "this consumer has a credit card and an auto loan according to the summary"
	accounts, fallback := extract.Accounts(text, domain.BureauPresence{TransUnion: true})

	if fallback != "placeholder" {
		t.Fatalf("expected placeholder fallback, got %q", fallback)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 placeholder accounts, got %+v", accounts)
	}
	for _, a := range accounts {
		if a.AccountName == "" {
			t.Error("placeholder account must still carry a name")
		}
		if a.Bureau != domain.BureauTransUnion {
			t.Errorf("sole present bureau should be attributed, got %q", a.Bureau)
		}
	}
}

func TestAccounts_BureauAttribution(t *testing.T) {
	text := `ACCOUNT INFORMATION

Account Name: Discover Card
Account Number: 601188
Balance: $900
Reported by Equifax`

	accounts, _ := extract.Accounts(text, domain.BureauPresence{Equifax: true, Experian: true})
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %+v", accounts)
	}
	if accounts[0].Bureau != domain.BureauEquifax {
		t.Errorf("in-block mention should win, got %q", accounts[0].Bureau)
	}
}

func TestRun_CollectsFallbackTags(t *testing.T) {
	res := extract.Run("nothing here about a mortgage at all really", domain.BureauPresence{})
	if len(res.Accounts) == 0 {
		t.Fatal("expected placeholder accounts from Run")
	}
	joined := strings.Join(res.Fallbacks, ",")
	if !strings.Contains(joined, "accounts:") {
		t.Errorf("expected accounts fallback tag, got %v", res.Fallbacks)
	}
}
