package parser

import (
	"regexp"
	"strings"
)

// The summary importer accepts the same text the financial report export
// produces, plus bare PAN listings used purely for status promotion.
var (
	nameMarkerRegex = regexp.MustCompile(`👤\s*(.+)`)
	sellValueRegex  = regexp.MustCompile(`(?i)Total Sell Value\s*-\s*([\d,]+)rs`)
	withdrawnRegex  = regexp.MustCompile(`(?i)Withdrawn\s*-\s*(Yes|No)`)
)

// FinancialUpdate carries the fields recovered for one account name. Nil
// pointers mean the summary text did not mention that field.
type FinancialUpdate struct {
	SoldValue *string
	Withdrawn *bool
}

// Summary holds the two independent result sets recovered from one pasted
// status/financial summary: PAN codes to promote, and per-name financial
// field updates.
type Summary struct {
	PANs    []string
	Updates map[string]*FinancialUpdate
}

// HasPAN reports whether the given PAN (any case) was present in the paste.
func (s *Summary) HasPAN(pan string) bool {
	upper := strings.ToUpper(pan)
	for _, p := range s.PANs {
		if p == upper {
			return true
		}
	}
	return false
}

// summaryCursor is the fold state threaded through the line scan: the name
// set by the last 👤 marker line, sticky until the next marker.
type summaryCursor struct {
	name string
}

// ParseSummary scans pasted summary text in a single pass. PAN extraction and
// the name-keyed financial scan are independent: a line can contribute to
// both result sets.
func (p *Parser) ParseSummary(input string) *Summary {
	summary := &Summary{
		Updates: make(map[string]*FinancialUpdate),
	}

	var cursor summaryCursor
	for _, raw := range strings.Split(strings.TrimSpace(input), "\n") {
		if pan := ExtractPAN(strings.TrimSpace(raw)); pan != "" {
			summary.PANs = append(summary.PANs, pan)
		}
		cursor = summary.scanFinancialLine(cursor, raw)
	}

	return summary
}

// scanFinancialLine advances the sticky-cursor scan by one line and returns
// the new cursor state.
func (s *Summary) scanFinancialLine(cursor summaryCursor, line string) summaryCursor {
	if m := nameMarkerRegex.FindStringSubmatch(line); m != nil {
		cursor.name = strings.TrimSpace(m[1])
	}
	if cursor.name == "" {
		return cursor
	}

	soldMatch := sellValueRegex.FindStringSubmatch(line)
	withdrawnMatch := withdrawnRegex.FindStringSubmatch(line)
	if soldMatch == nil && withdrawnMatch == nil {
		return cursor
	}

	update := s.Updates[cursor.name]
	if update == nil {
		update = &FinancialUpdate{}
		s.Updates[cursor.name] = update
	}
	if soldMatch != nil {
		value := strings.ReplaceAll(soldMatch[1], ",", "")
		update.SoldValue = &value
	}
	if withdrawnMatch != nil {
		withdrawn := strings.EqualFold(withdrawnMatch[1], "yes")
		update.Withdrawn = &withdrawn
	}
	return cursor
}
