package reconcile

import (
	"testing"

	"github.com/ipotrak/ipotrak/pkg/models"
)

func account(name, phone, pan, login string) *models.Account {
	a := models.New()
	a.Name = name
	a.Phone = phone
	a.PAN = pan
	a.Login = login
	return a
}

func TestDuplicateKeys(t *testing.T) {
	cases := []struct {
		name string
		a, b *models.Account
		want bool
	}{
		{"pan case-insensitive", account("A", "9000000001", "ABCDE1234F", ""), account("B", "9000000002", "abcde1234f", ""), true},
		{"login case-insensitive", account("A", "9000000001", "", "LoginX1"), account("B", "9000000002", "", "loginx1"), true},
		{"phone and name", account("Jane Doe", "9000000001", "", ""), account("jane doe", "9000000001", "", ""), true},
		{"phone alone is not enough", account("Jane Doe", "9000000001", "", ""), account("John Smith", "9000000001", "", ""), false},
		{"empty pans never match", account("A", "9000000001", "", ""), account("B", "9000000002", "", ""), false},
		{"distinct records", account("A", "9000000001", "ABCDE1234F", ""), account("B", "9000000002", "FGHIJ5678K", ""), false},
	}

	for _, c := range cases {
		if got := Duplicate(c.a, c.b); got != c.want {
			t.Errorf("%s: Duplicate = %v, want %v", c.name, got, c.want)
		}
		// The predicate is symmetric.
		if got := Duplicate(c.b, c.a); got != c.want {
			t.Errorf("%s (reversed): Duplicate = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMergeAgainstExisting(t *testing.T) {
	existing := []*models.Account{account("Jane Doe", "9000000001", "ABCDE1234F", "")}
	candidates := []*models.Account{
		account("Jane D", "9000000009", "abcde1234f", ""), // same PAN, different everything else
		account("John Smith", "9000000002", "FGHIJ5678K", ""),
	}

	report := Merge(existing, candidates)
	if len(report.Accepted) != 1 || report.Skipped != 1 {
		t.Fatalf("accepted %d skipped %d, want 1/1", len(report.Accepted), report.Skipped)
	}
	if report.Accepted[0].Name != "John Smith" {
		t.Errorf("accepted %q, want John Smith", report.Accepted[0].Name)
	}
}

func TestMergeIntraBatch(t *testing.T) {
	// The same block pasted twice in one call: only the first copy survives.
	candidates := []*models.Account{
		account("Jane Doe", "9000000001", "ABCDE1234F", ""),
		account("Jane Doe", "9000000001", "ABCDE1234F", ""),
	}

	report := Merge(nil, candidates)
	if len(report.Accepted) != 1 || report.Skipped != 1 {
		t.Fatalf("accepted %d skipped %d, want 1/1", len(report.Accepted), report.Skipped)
	}
}

func TestMergeTransitiveChain(t *testing.T) {
	// A, B and C share a PAN; merging in any split must never yield more than
	// one accepted record.
	a := account("A", "9000000001", "ABCDE1234F", "")
	b := account("B", "9000000002", "abcde1234f", "")
	c := account("C", "9000000003", "Abcde1234F", "")

	report := Merge(nil, []*models.Account{a, b, c})
	if len(report.Accepted) != 1 {
		t.Fatalf("accepted %d, want 1", len(report.Accepted))
	}

	report = Merge([]*models.Account{a}, []*models.Account{b, c})
	if len(report.Accepted) != 0 {
		t.Fatalf("accepted %d against existing chain head, want 0", len(report.Accepted))
	}
}
