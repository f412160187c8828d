package parser

import (
	"regexp"
	"strings"

	"github.com/ipotrak/ipotrak/pkg/models"
)

// brokerNames maps the lowercase substrings recognised on the name line to
// broker values. "angle one" is matched as a two-word phrase.
var brokerNames = []struct {
	needle string
	broker models.Broker
}{
	{"upstox", models.BrokerUpstox},
	{"zerodha", models.BrokerZerodha},
	{"groww", models.BrokerGroww},
	{"angle one", models.BrokerAngleOne},
}

// tokenStoplist filters tokens that are broker-name fragments or listing
// filler words and therefore never credentials.
var tokenStoplist = regexp.MustCompile(`(?i)upstox|zerodha|groww|angle|one|through|mobile|app`)

var numericPINRegex = regexp.MustCompile(`^\d{4,8}$`)

// ParseAccounts splits a raw multi-account paste into blocks and reconstructs
// one account per block. Blocks missing a name or phone are dropped.
func (p *Parser) ParseAccounts(input string) []*models.Account {
	var accounts []*models.Account
	for _, block := range SplitBlocks(input) {
		account := p.reconstruct(block)
		if account == nil {
			continue
		}
		if !account.Valid() {
			p.logger.Debug("dropping incomplete account", "name", account.Name, "phone", account.Phone)
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// reconstruct assembles a best-guess account from one cleaned text block. The
// first line carries the name and optionally the broker; the remaining lines
// are scanned by the field extractors, and whatever tokens are left over are
// ranked into login ID / PIN / TPIN.
func (p *Parser) reconstruct(lines []string) *models.Account {
	if len(lines) == 0 {
		return nil
	}

	firstLine := lines[0]
	account := models.New()
	account.Name, account.Broker = splitNameBroker(firstLine)

	rest := strings.Join(lines[1:], "\n")
	account.PAN = ExtractPAN(rest)
	account.Email = ExtractEmail(rest)
	account.Year = ExtractYear(rest)

	account.Phone = ExtractPhone(rest)
	if account.Phone == "" {
		// Fall back to the title line; the matched substring is then part of
		// the name and has to be removed from it.
		if raw := ExtractPhoneRaw(firstLine); raw != "" {
			account.Phone = normalizePhone(raw)
			account.Name = strings.TrimSpace(strings.Replace(account.Name, raw, "", 1))
		}
	}

	for _, line := range lines {
		if pin, ok := ExtractLabeledPIN(line); ok {
			account.PIN = pin
		}
	}

	candidates := credentialCandidates(lines[1:], account.Name)
	if account.Login == "" && len(candidates) > 0 {
		account.Login = pickLogin(candidates)
	}

	var numeric []string
	for _, token := range candidates {
		if numericPINRegex.MatchString(token) && token != account.Year && token != account.Phone {
			numeric = append(numeric, token)
		}
	}
	if len(numeric) > 0 && account.PIN == "" {
		account.PIN = numeric[0]
	}
	if len(numeric) > 1 {
		account.TPIN = numeric[1]
	}

	return account
}

// splitNameBroker finds a known broker name inside the title line, removes it
// and returns the leftover text as the display name.
func splitNameBroker(firstLine string) (string, models.Broker) {
	lower := strings.ToLower(firstLine)
	for _, b := range brokerNames {
		idx := strings.Index(lower, b.needle)
		if idx < 0 {
			continue
		}
		name := firstLine[:idx] + firstLine[idx+len(b.needle):]
		return strings.TrimSpace(name), b.broker
	}
	return strings.TrimSpace(firstLine), models.BrokerUnknown
}

// credentialCandidates tokenizes the lines after the title and keeps only
// tokens that could plausibly be a login ID, PIN or TPIN: everything already
// claimed by a field extractor, broker fragments, short tokens and words from
// the recovered name are filtered out.
func credentialCandidates(lines []string, name string) []string {
	nameWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		nameWords[w] = true
	}

	var candidates []string
	for _, line := range lines {
		for _, token := range strings.Fields(line) {
			if phoneRegex.MatchString(token) ||
				emailRegex.MatchString(token) ||
				panRegex.MatchString(token) ||
				yearRegex.MatchString(token) ||
				tokenStoplist.MatchString(token) {
				continue
			}
			if len(token) <= 2 {
				continue
			}
			if nameWords[strings.ToLower(token)] {
				continue
			}
			candidates = append(candidates, token)
		}
	}
	return candidates
}

// pickLogin prefers the first token mixing letters and digits; otherwise the
// first candidate stands in. A trailing dash is listing punctuation, not part
// of the ID.
func pickLogin(candidates []string) string {
	for _, token := range candidates {
		if strings.ContainsFunc(token, isLetter) && strings.ContainsFunc(token, isDigit) {
			return strings.TrimSuffix(token, "-")
		}
	}
	return strings.TrimSuffix(candidates[0], "-")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
