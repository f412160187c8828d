package parser

import (
	"regexp"
	"strings"
)

// listMarkerRegex matches a numbered-list marker at the start of a line,
// e.g. "1) ", "2.", "12) ".
var listMarkerRegex = regexp.MustCompile(`^\d+[).]\s*`)

// SplitBlocks divides a raw multi-account paste into per-account text blocks.
// A new block starts at every line that begins with a numbered-list marker;
// text before the first marker forms a block of its own, so input without any
// markers comes back as a single block. The marker itself is stripped and
// blocks that are empty after cleanup are discarded.
func SplitBlocks(input string) [][]string {
	lines := strings.Split(strings.TrimSpace(input), "\n")

	var blocks [][]string
	var current []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if listMarkerRegex.MatchString(line) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, listMarkerRegex.ReplaceAllString(line, ""))
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	// Drop blocks with no content left after marker cleanup.
	kept := blocks[:0]
	for _, block := range blocks {
		if len(block) == 1 && block[0] == "" {
			continue
		}
		kept = append(kept, block)
	}
	return kept
}
