package report

// Package report renders the two text exports the tracker produces: the
// applied-accounts summary and the per-account financial report. The financial
// report is also an input format — pasting it back into the summary importer
// restores sold values and withdrawn flags — so its shape is a contract, not
// just presentation.

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ipotrak/ipotrak/pkg/models"
)

// AppliedSummary lists every applied or allotted account with its PAN, for
// sharing allotment-check lists. Returns "" when nothing was applied yet.
func AppliedSummary(accounts []*models.Account) string {
	var blocks []string
	for _, a := range accounts {
		if !a.Applied() {
			continue
		}
		pan := a.PAN
		if pan == "" {
			pan = "PAN not available"
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s", a.Name, pan))
	}
	if len(blocks) == 0 {
		return ""
	}
	return fmt.Sprintf("%s\n\nTotal Applied Accounts: %d", strings.Join(blocks, "\n\n"), len(blocks))
}

// FinancialReport renders one 👤 block per allotted account with investment,
// sell value, profit or loss, and withdrawal state. totalInvestment is the
// user-entered amount blocked for the whole batch; cost per account is the
// even split. Returns "" when no account is allotted.
func FinancialReport(allotted []*models.Account, totalInvestment string) string {
	if len(allotted) == 0 {
		return ""
	}

	total := parseAmount(totalInvestment)
	perAccount := total.Div(decimal.NewFromInt(int64(len(allotted))))

	blocks := make([]string, 0, len(allotted))
	for _, a := range allotted {
		soldValue := parseAmount(a.SoldValue)

		profit := decimal.Zero
		if soldValue.IsPositive() && perAccount.IsPositive() {
			profit = soldValue.Sub(perAccount)
		}
		profitLabel := "Profit"
		if profit.IsNegative() {
			profitLabel = "Loss"
		}

		withdrawn := "No"
		if a.AmountWithdrawn {
			withdrawn = "Yes"
		}

		blocks = append(blocks, fmt.Sprintf(`👤 %s
Total Investment - %srs
Total Sell Value - %srs
%s - %srs
Withdrawn - %s`,
			a.Name,
			FormatINR(perAccount.Round(0)),
			FormatINR(soldValue),
			profitLabel, FormatINR(profit.Abs().Round(0)),
			withdrawn))
	}

	return strings.Join(blocks, "\n\n")
}

// FormatINR renders an amount with Indian digit grouping: the last three
// digits form one group, everything above groups by two (12,34,567).
func FormatINR(d decimal.Decimal) string {
	s := d.String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	grouped := "," + intPart[len(intPart)-3:]
	rest := intPart[:len(intPart)-3]
	for len(rest) > 2 {
		grouped = "," + rest[len(rest)-2:] + grouped
		rest = rest[:len(rest)-2]
	}
	return sign + rest + grouped + fracPart
}

func parseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
