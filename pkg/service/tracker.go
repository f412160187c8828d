package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ipotrak/ipotrak/pkg/models"
	"github.com/ipotrak/ipotrak/pkg/parser"
	"github.com/ipotrak/ipotrak/pkg/reconcile"
	"github.com/ipotrak/ipotrak/pkg/store"
)

// Tracker owns the account collection and serializes every operation on it:
// bulk imports, summary restores, status toggles and financial edits. All
// mutations go through here so persistence and change counting stay in one
// place.
type Tracker struct {
	store  store.Store
	logger *log.Logger
	parser *parser.Parser

	accounts        []*models.Account
	totalInvestment string
}

func NewTracker(st store.Store, logger *log.Logger) *Tracker {
	t := &Tracker{
		store:  st,
		logger: logger,
		parser: parser.New(logger),
	}
	t.load()
	return t
}

func (t *Tracker) load() {
	raw, ok, err := t.store.Get(store.KeyAccounts)
	if err != nil {
		t.logger.Error("failed to read accounts, starting empty", "error", err)
	} else if ok {
		if err := yaml.Unmarshal([]byte(raw), &t.accounts); err != nil {
			t.logger.Error("failed to decode accounts, starting empty", "error", err)
			t.accounts = nil
		}
	}

	if inv, ok, err := t.store.Get(store.KeyTotalInvestment); err == nil && ok {
		t.totalInvestment = inv
	}
}

// save pushes the collection to the store. A persistence failure is logged
// and the tracker keeps working with in-memory state only.
func (t *Tracker) save() {
	data, err := yaml.Marshal(t.accounts)
	if err != nil {
		t.logger.Error("failed to encode accounts", "error", err)
		return
	}
	if err := t.store.Set(store.KeyAccounts, string(data)); err != nil {
		t.logger.Error("failed to persist accounts", "error", err)
	}
}

// Accounts returns the full collection in insertion order.
func (t *Tracker) Accounts() []*models.Account {
	return t.accounts
}

// Allotted returns the accounts whose application was allotted.
func (t *Tracker) Allotted() []*models.Account {
	var allotted []*models.Account
	for _, a := range t.accounts {
		if a.Status == models.StatusAllotted {
			allotted = append(allotted, a)
		}
	}
	return allotted
}

// Search filters accounts by a free-text term over name, PAN and phone.
func (t *Tracker) Search(term string) []*models.Account {
	if term == "" {
		return t.accounts
	}
	lower := strings.ToLower(term)
	var matched []*models.Account
	for _, a := range t.accounts {
		if strings.Contains(strings.ToLower(a.Name), lower) ||
			strings.Contains(strings.ToLower(a.PAN), lower) ||
			strings.Contains(a.Phone, term) {
			matched = append(matched, a)
		}
	}
	return matched
}

// Get looks up one account by identity.
func (t *Tracker) Get(id string) (*models.Account, error) {
	return t.find(id)
}

func (t *Tracker) find(id string) (*models.Account, error) {
	for _, a := range t.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("account %s not found", id)
}

// Add appends a single user-entered account.
func (t *Tracker) Add(account *models.Account) error {
	if !account.Valid() {
		return fmt.Errorf("account needs at least a name and a phone number")
	}
	t.accounts = append(t.accounts, account)
	t.save()
	return nil
}

// Update replaces a stored account's fields, keyed by identity.
func (t *Tracker) Update(updated *models.Account) error {
	for i, a := range t.accounts {
		if a.ID == updated.ID {
			t.accounts[i] = updated
			t.save()
			return nil
		}
	}
	return fmt.Errorf("account %s not found", updated.ID)
}

// BulkAdd parses a raw multi-account paste and merges the candidates into the
// collection. The returned message summarizes the outcome for the user.
func (t *Tracker) BulkAdd(text string) string {
	return t.AddBatch(t.parser.ParseAccounts(text))
}

// BulkAddXLS is the spreadsheet flavour of BulkAdd.
func (t *Tracker) BulkAddXLS(data []byte) (string, error) {
	candidates, err := t.parser.ParseAccountsXLS(data)
	if err != nil {
		return "", err
	}
	return t.AddBatch(candidates), nil
}

// AddBatch runs the duplicate check for each candidate against both the
// existing collection and the candidates accepted earlier in the batch, then
// appends the survivors.
func (t *Tracker) AddBatch(candidates []*models.Account) string {
	if len(candidates) == 0 {
		return "No valid accounts found."
	}

	report := reconcile.Merge(t.accounts, candidates)
	t.logger.Debug("merged candidate batch", "parsed", len(candidates), "accepted", len(report.Accepted), "skipped", report.Skipped)

	if len(report.Accepted) == 0 {
		return "No new accounts added."
	}

	t.accounts = append(t.accounts, report.Accepted...)
	t.save()
	return fmt.Sprintf("Successfully added %d new accounts.", len(report.Accepted))
}

// SummaryResult reports what a summary import changed. SwitchToAllotted tells
// the caller to move to the allotted view and fire the celebration animation.
type SummaryResult struct {
	StatusChanges    int
	FinancialChanges int
	SwitchToAllotted bool
	Message          string
}

// ImportSummary applies a pasted status/financial summary to the collection.
// PANs found in the text promote matching accounts to Applied, or to Allotted
// when markAsAllotted is set; 👤-keyed financial blocks restore sold value and
// withdrawn state by account name. Only real changes are counted, so applying
// the same text twice is a no-op the second time.
func (t *Tracker) ImportSummary(text string, markAsAllotted bool) *SummaryResult {
	summary := t.parser.ParseSummary(text)

	result := &SummaryResult{}
	targetStatus := models.StatusApplied
	if markAsAllotted {
		targetStatus = models.StatusAllotted
	}

	for _, account := range t.accounts {
		if account.PAN != "" && summary.HasPAN(account.PAN) && account.Status != targetStatus {
			account.Status = targetStatus
			result.StatusChanges++
		}

		update := summary.Updates[account.Name]
		if update == nil {
			continue
		}
		if update.SoldValue != nil && *update.SoldValue != account.SoldValue {
			account.SoldValue = *update.SoldValue
			// A recovered sold value implies the sale happened.
			account.SharesSold = true
			result.FinancialChanges++
		}
		if update.Withdrawn != nil && *update.Withdrawn != account.AmountWithdrawn {
			account.AmountWithdrawn = *update.Withdrawn
			result.FinancialChanges++
		}
	}

	if result.StatusChanges > 0 || result.FinancialChanges > 0 {
		t.save()
	}

	switch {
	case result.StatusChanges > 0:
		result.Message = fmt.Sprintf("%d account(s) status updated.", result.StatusChanges)
		result.SwitchToAllotted = markAsAllotted
	case result.FinancialChanges > 0:
		accounts := int(math.Ceil(float64(result.FinancialChanges) / 2))
		result.Message = fmt.Sprintf("Restored financial data for %d accounts.", accounts)
	default:
		result.Message = "No matching accounts found to update."
	}

	return result
}

// SetStatus moves one account to the given lifecycle stage.
func (t *Tracker) SetStatus(id string, status models.ApplicationStatus) error {
	account, err := t.find(id)
	if err != nil {
		return err
	}
	account.Status = status
	t.save()
	return nil
}

// ToggleSold flips the shares-sold checkbox.
func (t *Tracker) ToggleSold(id string, sold bool) error {
	account, err := t.find(id)
	if err != nil {
		return err
	}
	account.SharesSold = sold
	t.save()
	return nil
}

// ToggleWithdrawn flips the money-in-bank checkbox.
func (t *Tracker) ToggleWithdrawn(id string, withdrawn bool) error {
	account, err := t.find(id)
	if err != nil {
		return err
	}
	account.AmountWithdrawn = withdrawn
	t.save()
	return nil
}

// SetSoldValue records the proceeds of a sale.
func (t *Tracker) SetSoldValue(id, value string) error {
	account, err := t.find(id)
	if err != nil {
		return err
	}
	account.SoldValue = value
	t.save()
	return nil
}

// ResetAll marks every account pending again and clears the post-allotment
// bookkeeping.
func (t *Tracker) ResetAll() {
	for _, account := range t.accounts {
		account.Status = models.StatusPending
		account.SharesSold = false
		account.AmountWithdrawn = false
		account.SoldValue = ""
	}
	t.save()
}

// TotalInvestment returns the total amount blocked for the allotted batch, as
// entered by the user.
func (t *Tracker) TotalInvestment() string {
	return t.totalInvestment
}

// SetTotalInvestment stores the batch investment amount.
func (t *Tracker) SetTotalInvestment(value string) {
	t.totalInvestment = value
	if err := t.store.Set(store.KeyTotalInvestment, value); err != nil {
		t.logger.Error("failed to persist total investment", "error", err)
	}
}

// Totals computes the per-account cost and the realized profit over the
// allotted accounts: sum of sold values minus cost for each account actually
// sold. Unparseable amounts count as zero, mirroring how they were entered.
func (t *Tracker) Totals() (perAccount, realizedProfit decimal.Decimal) {
	allotted := t.Allotted()
	if len(allotted) == 0 {
		return decimal.Zero, decimal.Zero
	}

	total := parseAmount(t.totalInvestment)
	perAccount = total.Div(decimal.NewFromInt(int64(len(allotted))))

	soldTotal := decimal.Zero
	soldCount := 0
	for _, a := range allotted {
		if !a.SharesSold {
			continue
		}
		soldCount++
		if a.SoldValue != "" {
			soldTotal = soldTotal.Add(parseAmount(a.SoldValue))
		}
	}

	realizedProfit = soldTotal.Sub(perAccount.Mul(decimal.NewFromInt(int64(soldCount))))
	return perAccount, realizedProfit
}

func parseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
