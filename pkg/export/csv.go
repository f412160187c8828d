package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ipotrak/ipotrak/pkg/models"
)

// FilterFunc decides whether an account makes it into an export.
type FilterFunc func(*models.Account) bool

// WriteCSV writes the account list as CSV. A nil filter exports everything.
func WriteCSV(w io.Writer, accounts []*models.Account, filter FilterFunc) error {
	cw := csv.NewWriter(w)

	header := []string{"Name", "Broker", "Phone", "PAN", "Email", "LoginID", "Year", "Status", "SharesSold", "SoldValue", "AmountWithdrawn"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, a := range accounts {
		if filter != nil && !filter(a) {
			continue
		}
		record := []string{
			a.Name,
			string(a.Broker),
			a.Phone,
			a.PAN,
			a.Email,
			a.Login,
			a.Year,
			string(a.Status),
			fmt.Sprintf("%t", a.SharesSold),
			a.SoldValue,
			fmt.Sprintf("%t", a.AmountWithdrawn),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing account: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
