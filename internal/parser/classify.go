package parser

import (
	"strings"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// ClassifiedLine is a normalized line tagged with its kind and payload.
//
// For a DateLine, Date holds the DD-MM-YYYY token and Text the rest of the
// line. For every other kind, Text holds the line itself.
type ClassifiedLine struct {
	Kind models.LineKind
	Date string
	Text string
}

// recognizer pairs a line predicate with the constructor for its payload.
type recognizer struct {
	kind  models.LineKind
	match func(line string) bool
	build func(line string) ClassifiedLine
}

// recognizers are evaluated top to bottom; the first match wins. A
// date-shaped line is therefore never an amount.
var recognizers = []recognizer{
	{
		kind:  models.DateLine,
		match: datePrefixPattern.MatchString,
		build: func(line string) ClassifiedLine {
			return ClassifiedLine{
				Date: line[:dateTokenLen],
				Text: strings.TrimSpace(line[dateTokenLen:]),
			}
		},
	},
	{
		kind:  models.AmountLine,
		match: amountPattern.MatchString,
		build: func(line string) ClassifiedLine {
			return ClassifiedLine{Text: line}
		},
	},
	{
		kind:  models.TypeLine,
		match: typePattern.MatchString,
		build: func(line string) ClassifiedLine {
			return ClassifiedLine{Text: line}
		},
	},
}

// Classify categorizes a normalized line. Lines matching no recognizer are
// continuation text.
func Classify(line string) ClassifiedLine {
	for _, r := range recognizers {
		if r.match(line) {
			cl := r.build(line)
			cl.Kind = r.kind
			return cl
		}
	}
	return ClassifiedLine{Kind: models.ContinuationLine, Text: line}
}
