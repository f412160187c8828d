package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/ipotrak/ipotrak/pkg/models"
)

// ParseAccountsXLS reads accounts from a spreadsheet with one account per row.
// The first column is treated like the title line of a text block (name plus
// optional broker); the remaining columns are joined and run through the same
// field extractors as the bulk text path, so PAN, phone, email and credential
// columns can appear in any order.
func (p *Parser) ParseAccountsXLS(data []byte) ([]*models.Account, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(1000)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	return p.accountsFromRows(rows), nil
}

// accountsFromRows turns raw sheet rows into accounts: each row becomes the
// lines of one block, with empty cells and a leading header row dropped.
func (p *Parser) accountsFromRows(rows [][]string) []*models.Account {
	var accounts []*models.Account
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		// Skip a header row.
		if strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}

		lines := make([]string, 0, len(row))
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				lines = append(lines, cell)
			}
		}

		account := p.reconstruct(lines)
		if account == nil || !account.Valid() {
			p.logger.Debug("skipping incomplete row", "row", row)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts
}
