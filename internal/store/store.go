// Package store keeps confirmed expenses.
//
// A Store is a key-less record store: Load returns every record and Save
// replaces them all. Service layers identifiers, validation and locking on
// top of it.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// ErrNotFound is returned when an expense ID does not exist.
var ErrNotFound = errors.New("expense not found")

// Store loads and saves the full set of expenses.
type Store interface {
	Load() ([]models.Expense, error)
	Save(expenses []models.Expense) error
}

// Open returns the store for driver ("csv" or "sqlite") at path.
func Open(driver, path string, logger *log.Logger) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "csv":
		return NewCSVStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}
