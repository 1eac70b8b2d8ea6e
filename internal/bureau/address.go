package bureau

import "github.com/riyahstaff/credifyai-sub001/internal/domain"

// Canonical dispute mailing addresses, one per bureau. Static reference data.
var addresses = map[string]string{
	domain.BureauExperian:   "Experian\nP.O. Box 4500\nAllen, TX 75013",
	domain.BureauEquifax:    "Equifax Information Services LLC\nP.O. Box 740256\nAtlanta, GA 30374",
	domain.BureauTransUnion: "TransUnion Consumer Solutions\nP.O. Box 2000\nChester, PA 19016",
}

// Address returns the canonical mailing address for a bureau. The lookup is
// total and idempotent: every known spelling (including "Trans Union") maps
// to the same address, and an unknown name renders as
// "<name>\n[BUREAU ADDRESS]" rather than failing.
func Address(name string) string {
	if addr, ok := addresses[Normalize(name)]; ok {
		return addr
	}
	return name + "\n[BUREAU ADDRESS]"
}
