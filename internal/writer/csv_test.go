package writer

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{Date: "01-02-2023", Description: "GROCERY STORE", Amount: "45.50", Type: "DR"},
		{Date: "02-02-2023", Description: "SHOP A, LONDON", Amount: "", Type: "DR"},
		{Date: "03-02-2023", Description: "CAFE", Amount: "3", Type: "DR"},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "Date,Description,Amount,Type\n") {
		t.Errorf("expected column headers, got %q", output)
	}
	if !strings.Contains(output, "01-02-2023,GROCERY STORE,45.50,DR") {
		t.Error("expected first transaction row")
	}
	if !strings.Contains(output, `"SHOP A, LONDON",,DR`) {
		t.Error("expected quoted description and empty amount")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, sampleTransactions()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := buf.String(); got != "01-02-2023,GROCERY STORE,45.50,DR\n" {
		t.Errorf("got %q", got)
	}
}

func TestTotalAmount(t *testing.T) {
	tests := []struct {
		name     string
		txns     []models.Transaction
		expected string
	}{
		{"mixed", sampleTransactions(), "48.50"},
		{"empty", nil, "0.00"},
		{"unparsable ignored", []models.Transaction{{Amount: "abc"}, {Amount: "1.25"}}, "1.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalAmount(tt.txns).StringFixed(2); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, f := range Formats {
		if _, err := New(f); err != nil {
			t.Errorf("New(%q): unexpected error: %v", f, err)
		}
	}
	if _, err := New("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"out.csv", FormatCSV},
		{"OUT.XLSX", FormatXLSX},
		{"out.json", FormatJSON},
		{"out.yml", FormatYAML},
		{"out.txt", FormatTable},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path, FormatTable); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONWriter{}).Write(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("nil should encode as [], got %q", buf.String())
	}

	buf.Reset()
	if err := (JSONWriter{}).Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []models.Transaction
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 || got[0].Description != "GROCERY STORE" {
		t.Errorf("got %+v", got)
	}
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAMLWriter{}).Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "description: GROCERY STORE") {
		t.Errorf("unexpected YAML: %s", buf.String())
	}
	var got []models.Transaction
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d transactions, want 3", len(got))
	}
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (TableWriter{}).Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"GROCERY STORE", "48.50", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteToFile(&XLSXWriter{Sheet: "Transactions"}, path, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][1] != "GROCERY STORE" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if rows[1][2] != "45.5" {
		t.Errorf("amount cell: got %q, want %q", rows[1][2], "45.5")
	}
}

func TestWriteExpensesTable(t *testing.T) {
	var buf bytes.Buffer
	WriteExpensesTable(&buf, []models.Expense{
		{ID: "id-1", Date: "01-02-2023", Description: "SHOP", Amount: decimal.RequireFromString("1.50")},
		{ID: "id-2", Date: "02-02-2023", Description: "CAFE", Amount: decimal.RequireFromString("2")},
	})
	out := buf.String()
	for _, want := range []string{"id-1", "CAFE", "3.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDebugTable(t *testing.T) {
	var buf bytes.Buffer
	WriteDebugTable(&buf, []models.DebugLine{
		{LineNum: 1, Text: "01-02-2023 SHOP", Kind: "date", Result: "opened"},
	})
	if !strings.Contains(buf.String(), "opened") || !strings.Contains(buf.String(), "01-02-2023 SHOP") {
		t.Errorf("unexpected trace table:\n%s", buf.String())
	}
}
