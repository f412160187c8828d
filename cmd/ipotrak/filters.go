package main

import (
	"strings"

	"github.com/ipotrak/ipotrak/pkg/export"
	"github.com/ipotrak/ipotrak/pkg/models"
)

type filters struct {
	status string
	broker string
	term   string
}

func (f *filters) toFilterFunc() export.FilterFunc {
	return func(a *models.Account) bool {
		if f.status != "" && !strings.EqualFold(string(a.Status), f.status) {
			return false
		}
		if f.broker != "" && !strings.EqualFold(string(a.Broker), f.broker) {
			return false
		}
		if f.term != "" {
			term := strings.ToLower(f.term)
			if !strings.Contains(strings.ToLower(a.Name), term) &&
				!strings.Contains(strings.ToLower(a.PAN), term) &&
				!strings.Contains(a.Phone, f.term) {
				return false
			}
		}
		return true
	}
}
