package store

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

var expenseDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// NewExpense is the input for adding an expense.
type NewExpense struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// ValidationError describes an invalid NewExpense field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the input and returns the parsed amount.
func (n NewExpense) Validate() (decimal.Decimal, error) {
	if !expenseDatePattern.MatchString(n.Date) {
		return decimal.Zero, &ValidationError{Field: "date", Message: "must be DD-MM-YYYY"}
	}
	if _, err := time.Parse(models.DateLayout, n.Date); err != nil {
		return decimal.Zero, &ValidationError{Field: "date", Message: "not a calendar date"}
	}
	if strings.TrimSpace(n.Description) == "" {
		return decimal.Zero, &ValidationError{Field: "description", Message: "is required"}
	}
	if strings.TrimSpace(n.Amount) == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "is required"}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(n.Amount))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "not a number"}
	}
	if amount.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "must not be negative"}
	}
	return amount, nil
}

// FromTransaction converts an extracted debit into expense input.
func FromTransaction(t models.Transaction) NewExpense {
	return NewExpense{Date: t.Date, Description: t.Description, Amount: t.Amount}
}

// Service manages expenses on top of a Store. Load and Save on a flat file
// are not atomic, so every read-modify-write runs under one lock.
type Service struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger

	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by st.
func NewService(st Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns all stored expenses.
func (s *Service) List() ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// Add validates and stores the inputs. Either all are stored or none.
func (s *Service) Add(inputs ...NewExpense) ([]models.Expense, error) {
	added := make([]models.Expense, 0, len(inputs))
	for i, in := range inputs {
		amount, err := in.Validate()
		if err != nil {
			if len(inputs) > 1 {
				return nil, fmt.Errorf("expense %d: %w", i+1, err)
			}
			return nil, err
		}
		added = append(added, models.Expense{
			Date:        in.Date,
			Description: strings.TrimSpace(in.Description),
			Amount:      amount,
		})
	}
	if len(added) == 0 {
		return added, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	for i := range added {
		added[i].ID = s.newID()
		added[i].CreatedAt = now
	}

	if err := s.store.Save(append(existing, added...)); err != nil {
		return nil, err
	}
	s.logger.Info("added expenses", "count", len(added))
	return added, nil
}

// Delete removes the expense with the given ID.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load()
	if err != nil {
		return err
	}

	kept := make([]models.Expense, 0, len(existing))
	found := false
	for _, e := range existing {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.store.Save(kept); err != nil {
		return err
	}
	s.logger.Info("deleted expense", "id", id)
	return nil
}

// Total sums expense amounts.
func Total(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
