package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debit and credit indicator tokens as they appear on their own line.
const (
	TypeDebit  = "DR"
	TypeCredit = "CR"
)

// DateLayout is the DD-MM-YYYY layout used by statement dates.
const DateLayout = "02-01-2006"

// Transaction represents a single debit extracted from a statement.
type Transaction struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
	Amount      string `json:"amount" yaml:"amount"` // empty if no amount line was seen
	Type        string `json:"type" yaml:"type"`     // always DR once emitted
}

// Expense is a confirmed transaction kept in the expense store.
type Expense struct {
	ID          string          `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"created_at"`
}

// LineKind categorizes a normalized statement line.
type LineKind int

const (
	ContinuationLine LineKind = iota
	DateLine
	AmountLine
	TypeLine
)

func (k LineKind) String() string {
	switch k {
	case DateLine:
		return "date"
	case AmountLine:
		return "amount"
	case TypeLine:
		return "type"
	default:
		return "continuation"
	}
}

// DebugLine captures what the extractor did with each input line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Kind    string `json:"kind"`
	Result  string `json:"result"` // see parser.Outcome
}
