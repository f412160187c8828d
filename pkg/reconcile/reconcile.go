package reconcile

// Package reconcile decides what happens when freshly parsed account
// candidates meet the existing collection: which ones are duplicates, which
// are genuinely new, and how many made it in. It is pure and stateless so the
// CLI, the HTTP server and tests all share the same policy.

import (
	"strings"

	"github.com/ipotrak/ipotrak/pkg/models"
)

// Duplicate reports whether two records describe the same account. Any one of
// the keys is enough:
//
//   - equal non-empty PAN (case-insensitive),
//   - equal non-empty login ID (case-insensitive),
//   - equal phone AND equal name (name case-insensitive).
func Duplicate(a, b *models.Account) bool {
	if a == nil || b == nil {
		return false
	}
	if a.PAN != "" && b.PAN != "" && strings.EqualFold(a.PAN, b.PAN) {
		return true
	}
	if a.Login != "" && b.Login != "" && strings.EqualFold(a.Login, b.Login) {
		return true
	}
	if a.Phone == b.Phone && strings.EqualFold(a.Name, b.Name) {
		return true
	}
	return false
}

// Report is the outcome of merging one candidate batch into the collection.
type Report struct {
	Accepted []*models.Account
	Skipped  int
}

// Merge walks the candidate batch in order and accepts each candidate only if
// it duplicates neither a pre-existing account nor a candidate accepted
// earlier in the same batch. The existing collection is not modified; callers
// append Accepted themselves.
func Merge(existing, candidates []*models.Account) *Report {
	report := &Report{}

	for _, candidate := range candidates {
		if matchesAny(candidate, existing) || matchesAny(candidate, report.Accepted) {
			report.Skipped++
			continue
		}
		report.Accepted = append(report.Accepted, candidate)
	}

	return report
}

func matchesAny(candidate *models.Account, accounts []*models.Account) bool {
	for _, account := range accounts {
		if Duplicate(candidate, account) {
			return true
		}
	}
	return false
}
