package store

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// expenseRecord is the table row for an expense.
type expenseRecord struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ExpenseID   string `gorm:"uniqueIndex"`
	Date        string
	Description string
	Amount      string
	CreatedAt   time.Time
}

func (expenseRecord) TableName() string { return "expenses" }

// SQLiteStore keeps expenses in a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string, lg *log.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&expenseRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	if lg != nil {
		lg.Debug("opened sqlite store", "path", path)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns all expenses in insertion order.
func (s *SQLiteStore) Load() ([]models.Expense, error) {
	var rows []expenseRecord
	if err := s.db.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(rows))
	for _, r := range rows {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("expense %s: parsing amount %q: %w", r.ExpenseID, r.Amount, err)
		}
		expenses = append(expenses, models.Expense{
			ID:          r.ExpenseID,
			Date:        r.Date,
			Description: r.Description,
			Amount:      amount,
			CreatedAt:   r.CreatedAt,
		})
	}
	return expenses, nil
}

// Save replaces every stored expense in a single transaction.
func (s *SQLiteStore) Save(expenses []models.Expense) error {
	rows := make([]expenseRecord, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, expenseRecord{
			ExpenseID:   e.ID,
			Date:        e.Date,
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			CreatedAt:   e.CreatedAt,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&expenseRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
