package parser

import (
	"regexp"
	"strings"
)

// Field extractors. Each one finds the first occurrence of its field inside a
// span of free text and returns it normalised, or "" when nothing matches.
// Parsing never fails: an unmatched field simply stays unset.
var (
	panRegex = regexp.MustCompile(`(?i)[A-Z]{5}[0-9]{4}[A-Z]`)
	// Standard 10 digit starting 6-9, or 5+5 split, optionally prefixed +91.
	phoneRegex = regexp.MustCompile(`(?:\+91[-\s]?)?[6-9]\d{9}\b|(?:\+91[-\s]?)?[6-9]\d{4}[-\s]\d{5}\b`)
	emailRegex = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	yearRegex  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	// A line whose text ends with "pin" carries the PIN value before the label.
	pinLabelRegex = regexp.MustCompile(`(?i)pin$`)

	nonDigitRegex = regexp.MustCompile(`\D`)
)

// ExtractPAN returns the first PAN-shaped code in text, uppercased.
func ExtractPAN(text string) string {
	return strings.ToUpper(panRegex.FindString(text))
}

// ExtractPhone returns the first phone number in text, reduced to its last 10
// digits. Country-code prefixes and separators are stripped; anything longer
// than 10 digits is truncated rather than rejected.
func ExtractPhone(text string) string {
	match := phoneRegex.FindString(text)
	if match == "" {
		return ""
	}
	return normalizePhone(match)
}

// ExtractPhoneRaw returns the raw matched phone substring, useful when the
// caller needs to remove it from the surrounding text.
func ExtractPhoneRaw(text string) string {
	return phoneRegex.FindString(text)
}

func normalizePhone(match string) string {
	digits := nonDigitRegex.ReplaceAllString(match, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// ExtractEmail returns the first email address in text.
func ExtractEmail(text string) string {
	return emailRegex.FindString(text)
}

// ExtractYear returns the first 4-digit year (19xx/20xx) in text.
func ExtractYear(text string) string {
	return yearRegex.FindString(text)
}

// ExtractLabeledPIN recognises lines like "4567 Pin" and returns the value
// preceding the label, or "" when the line carries no pin label.
func ExtractLabeledPIN(line string) (string, bool) {
	if !pinLabelRegex.MatchString(line) {
		return "", false
	}
	return strings.TrimSpace(pinLabelRegex.ReplaceAllString(line, "")), true
}
