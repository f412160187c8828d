package parser

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseSummaryFinancials(t *testing.T) {
	input := `👤 Jane Doe
Total Sell Value - 1,200rs
Withdrawn - Yes`

	summary := New(log.Default()).ParseSummary(input)

	update := summary.Updates["Jane Doe"]
	if update == nil {
		t.Fatalf("expected an update for Jane Doe, got %v", summary.Updates)
	}
	if update.SoldValue == nil || *update.SoldValue != "1200" {
		t.Errorf("soldValue = %v, want 1200 with commas stripped", update.SoldValue)
	}
	if update.Withdrawn == nil || !*update.Withdrawn {
		t.Errorf("withdrawn = %v, want true", update.Withdrawn)
	}
}

func TestParseSummaryStickyCursor(t *testing.T) {
	input := `👤 Jane Doe
Total Investment - 10,000rs
Total Sell Value - 15,000rs
Profit - 5,000rs
Withdrawn - No

👤 John Smith
Total Sell Value - 9,500rs
Withdrawn - Yes`

	summary := New(log.Default()).ParseSummary(input)

	if len(summary.Updates) != 2 {
		t.Fatalf("expected updates for 2 names, got %d", len(summary.Updates))
	}
	jane := summary.Updates["Jane Doe"]
	if jane == nil || jane.SoldValue == nil || *jane.SoldValue != "15000" {
		t.Errorf("jane = %+v", jane)
	}
	if jane.Withdrawn == nil || *jane.Withdrawn {
		t.Errorf("jane withdrawn should be false, got %+v", jane.Withdrawn)
	}
	john := summary.Updates["John Smith"]
	if john == nil || john.SoldValue == nil || *john.SoldValue != "9500" {
		t.Errorf("john = %+v", john)
	}
}

func TestParseSummaryPANs(t *testing.T) {
	input := `Jane Doe
abcde1234f applied via app
nothing on this line
FGHIJ5678K`

	summary := New(log.Default()).ParseSummary(input)
	if len(summary.PANs) != 2 {
		t.Fatalf("expected 2 PANs, got %v", summary.PANs)
	}
	if !summary.HasPAN("ABCDE1234F") || !summary.HasPAN("fghij5678k") {
		t.Errorf("PAN set missing entries: %v", summary.PANs)
	}
	if summary.HasPAN("ZZZZZ9999Z") {
		t.Error("unexpected PAN match")
	}
}

func TestParseSummaryLinesBeforeFirstMarkerIgnored(t *testing.T) {
	input := `Total Sell Value - 4,000rs
👤 Jane Doe
Total Sell Value - 5,000rs`

	summary := New(log.Default()).ParseSummary(input)
	if len(summary.Updates) != 1 {
		t.Fatalf("expected 1 update, got %v", summary.Updates)
	}
	if got := *summary.Updates["Jane Doe"].SoldValue; got != "5000" {
		t.Errorf("soldValue = %q, want 5000", got)
	}
}
