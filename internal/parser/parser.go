package parser

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// TextSource turns a statement document into plain text.
type TextSource interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}

// Options controls behavior that is not fixed by the statement layout.
type Options struct {
	// FlushUntyped emits a draft still open at end of input as a debit.
	// Off by default: such a draft is dropped.
	FlushUntyped bool
}

// ExtractTransactions folds the lines of text into the debits they describe,
// in input order. It never fails; lines it cannot use are dropped.
func ExtractTransactions(text string, opts Options) []models.Transaction {
	txns, _ := run(text, opts, false)
	return txns
}

// Trace is ExtractTransactions that also reports what happened to each line.
func Trace(text string, opts Options) ([]models.Transaction, []models.DebugLine) {
	return run(text, opts, true)
}

func run(text string, opts Options, debug bool) ([]models.Transaction, []models.DebugLine) {
	transactions := []models.Transaction{}
	var debugLines []models.DebugLine

	var state State
	for i, raw := range splitLines(text) {
		cl := Classify(Normalize(raw))

		next, emitted, outcome := Step(state, cl)
		if emitted != nil {
			transactions = append(transactions, *emitted)
		}
		state = next

		if debug {
			debugLines = append(debugLines, models.DebugLine{
				LineNum: i + 1,
				Text:    raw,
				Kind:    cl.Kind.String(),
				Result:  string(outcome),
			})
		}
	}

	if last := Flush(state, opts.FlushUntyped); last != nil {
		transactions = append(transactions, *last)
	}

	return transactions, debugLines
}

// Result is the outcome of extracting one document.
type Result struct {
	Text         string
	Transactions []models.Transaction
	DebugLines   []models.DebugLine
}

// Extractor reads documents through a TextSource and extracts their debits.
// It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	source TextSource
	opts   Options
	logger *log.Logger
}

// New returns an Extractor reading documents through source.
func New(source TextSource, opts Options, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{source: source, opts: opts, logger: logger}
}

// Extract returns the debits found in document. A text extraction failure is
// returned unchanged and without partial results.
func (e *Extractor) Extract(ctx context.Context, document []byte) ([]models.Transaction, error) {
	res, err := e.extract(ctx, document, false)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// ExtractDebug is Extract that also returns the text and per-line trace.
func (e *Extractor) ExtractDebug(ctx context.Context, document []byte) (*Result, error) {
	return e.extract(ctx, document, true)
}

func (e *Extractor) extract(ctx context.Context, document []byte, debug bool) (*Result, error) {
	text, err := e.source.ExtractText(ctx, document)
	if err != nil {
		return nil, err
	}

	txns, lines := run(text, e.opts, debug)
	e.logger.Debug("extracted transactions", "bytes", len(document), "chars", len(text), "count", len(txns))

	return &Result{Text: text, Transactions: txns, DebugLines: lines}, nil
}
