package parser

import (
	"github.com/charmbracelet/log"
)

// Parser turns pasted free text into account records and field updates. It is
// a best-effort heuristic parser: an ambiguous or unmatched field simply stays
// unset, never an error.
type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}
