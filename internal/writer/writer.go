// Package writer renders extracted transactions for output.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// Writer renders a list of transactions.
type Writer interface {
	Write(out io.Writer, txns []models.Transaction) error
}

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatTable, FormatCSV, FormatXLSX, FormatJSON, FormatYAML}

var columns = []string{"Date", "Description", "Amount", "Type"}

func row(txn models.Transaction) []string {
	return []string{txn.Date, txn.Description, txn.Amount, txn.Type}
}

// New returns the writer for format.
func New(format Format) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatTable:
		return &TableWriter{}, nil
	case FormatCSV:
		return &CSVWriter{IncludeHeader: true}, nil
	case FormatXLSX:
		return &XLSXWriter{Sheet: "Transactions"}, nil
	case FormatJSON:
		return JSONWriter{}, nil
	case FormatYAML:
		return YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// FormatForPath picks a format from a file extension, falling back to def.
func FormatForPath(path string, def Format) Format {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return FormatCSV
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return FormatJSON
	case strings.HasSuffix(strings.ToLower(path), ".yaml"), strings.HasSuffix(strings.ToLower(path), ".yml"):
		return FormatYAML
	default:
		return def
	}
}

// WriteToFile writes transactions to the file at path.
func WriteToFile(w Writer, path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, txns); err != nil {
		return err
	}
	return f.Close()
}

// TotalAmount sums the amounts of txns. Empty or unparsable amounts count as
// zero.
func TotalAmount(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Amount == "" {
			continue
		}
		if d, err := decimal.NewFromString(txn.Amount); err == nil {
			total = total.Add(d)
		}
	}
	return total
}

// JSONWriter writes transactions as an indented JSON array.
type JSONWriter struct{}

func (JSONWriter) Write(out io.Writer, txns []models.Transaction) error {
	if txns == nil {
		txns = []models.Transaction{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAMLWriter writes transactions as a YAML sequence.
type YAMLWriter struct{}

func (YAMLWriter) Write(out io.Writer, txns []models.Transaction) error {
	if txns == nil {
		txns = []models.Transaction{}
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
