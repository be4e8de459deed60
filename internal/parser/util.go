package parser

import (
	"regexp"
	"strings"
)

// Line patterns found in the statement text.
var (
	// DD-MM-YYYY at the very start of a line
	datePrefixPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`)
	// The whole line is a plain decimal: 45, 45.50
	amountPattern = regexp.MustCompile(`^\d+(?:\.\d{2})?$`)
	// The whole line is a debit/credit marker
	typePattern = regexp.MustCompile(`^(?:DR|CR)$`)
)

// dateTokenLen is the length of a DD-MM-YYYY token.
const dateTokenLen = 10

// Normalize collapses every run of whitespace into a single space and trims
// the result. PDF text often carries tabs, repeated spaces and non-breaking
// spaces between columns.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// splitLines breaks extracted text into raw lines. A trailing "\r" is left in
// place; Normalize removes it.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
