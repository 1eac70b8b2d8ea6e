// Package report assembles extractor outputs into one credit report model
// and computes its summary statistics. Pure merge: no I/O, deterministic
// given identical inputs.
package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riyahstaff/credifyai-sub001/internal/bureau"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/extract"
)

// revolvingTypes are the account types that count toward utilization.
var revolvingTypes = []string{"credit card", "revolving", "line of credit", "charge card"}

// Assemble merges the extractor outputs with the bureau detection into a
// CreditReport. Accounts is never nil; PrimaryBureau is kept only when that
// bureau is marked present.
func Assemble(res extract.Result, det bureau.Detection, rawText string, now time.Time) *domain.CreditReport {
	accounts := res.Accounts
	if accounts == nil {
		accounts = []domain.Account{}
	}

	primary := det.Primary
	if primary != "" && !bureauPresent(det.Present, primary) {
		primary = ""
	}

	r := &domain.CreditReport{
		ID:             uuid.New().String(),
		BureausPresent: det.Present,
		PrimaryBureau:  primary,
		PersonalInfo:   res.Personal,
		Accounts:       accounts,
		Inquiries:      res.Inquiries,
		PublicRecords:  res.PublicRecords,
		RawText:        rawText,
		Issues:         []domain.Issue{},
		CreatedAt:      now.UTC(),
	}
	r.Summary = summarize(r)
	return r
}

func summarize(r *domain.CreditReport) domain.ReportSummary {
	s := domain.ReportSummary{
		TotalAccounts:     len(r.Accounts),
		InquiryCount:      len(r.Inquiries),
		PublicRecordCount: len(r.PublicRecords),
		AccountTypes:      map[string]int{},
	}

	var balanceSum, limitSum float64
	for _, a := range r.Accounts {
		switch a.Status {
		case "open":
			s.OpenAccounts++
		case "closed":
			s.ClosedAccounts++
		}
		if a.IsNegative {
			s.NegativeAccounts++
		}
		if a.AccountType != "" {
			s.AccountTypes[a.AccountType]++
		}
		if a.Status != "closed" && isRevolving(a.AccountType) {
			if a.Balance != nil {
				balanceSum += *a.Balance
			}
			if a.CreditLimit != nil {
				limitSum += *a.CreditLimit
			}
		}
	}

	if limitSum > 0 {
		u := balanceSum / limitSum
		s.Utilization = &u
	}
	if len(s.AccountTypes) == 0 {
		s.AccountTypes = nil
	}
	return s
}

func isRevolving(accountType string) bool {
	t := strings.ToLower(accountType)
	for _, rt := range revolvingTypes {
		if strings.Contains(t, rt) {
			return true
		}
	}
	return false
}

func bureauPresent(p domain.BureauPresence, name string) bool {
	switch name {
	case domain.BureauExperian:
		return p.Experian
	case domain.BureauEquifax:
		return p.Equifax
	case domain.BureauTransUnion:
		return p.TransUnion
	}
	return false
}
