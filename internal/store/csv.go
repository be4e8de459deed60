package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

const (
	numFields      = 5
	colID          = 0
	colDate        = 1
	colDescription = 2
	colAmount      = 3
	colCreatedAt   = 4
)

var csvHeader = []string{"id", "date", "description", "amount", "created_at"}

// CSVStore keeps expenses in a flat CSV file.
type CSVStore struct {
	Path string
}

// NewCSVStore returns a store backed by the CSV file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// Load reads all expenses. A missing file is an empty store.
func (s *CSVStore) Load() ([]models.Expense, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening expenses file: %w", err)
	}
	defer f.Close()

	return ReadExpenses(f)
}

// Save replaces the file contents. It writes to a temporary file in the same
// directory and renames it over the original.
func (s *CSVStore) Save(expenses []models.Expense) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating expenses directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".expenses-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteExpenses(tmp, expenses); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replacing expenses file: %w", err)
	}
	return nil
}

// ReadExpenses reads an expenses CSV including its header row.
func ReadExpenses(r io.Reader) ([]models.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expenses CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var expenses []models.Expense
	for i, rec := range records[1:] {
		e, err := UnmarshalExpense(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// WriteExpenses writes expenses as CSV with a header row.
func WriteExpenses(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range expenses {
		if err := cw.Write(MarshalExpense(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(e models.Expense) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colDate] = e.Date
	row[colDescription] = e.Description
	row[colAmount] = e.Amount.StringFixed(2)
	if !e.CreatedAt.IsZero() {
		row[colCreatedAt] = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// UnmarshalExpense converts a CSV row to an Expense.
func UnmarshalExpense(record []string) (models.Expense, error) {
	if len(record) != numFields {
		return models.Expense{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return models.Expense{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var createdAt time.Time
	if record[colCreatedAt] != "" {
		createdAt, err = time.Parse(time.RFC3339, record[colCreatedAt])
		if err != nil {
			return models.Expense{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
		}
	}

	return models.Expense{
		ID:          record[colID],
		Date:        record[colDate],
		Description: record[colDescription],
		Amount:      amount,
		CreatedAt:   createdAt,
	}, nil
}
