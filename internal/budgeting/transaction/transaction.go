package transactions

import (
	"time"

	budErrors "github.com/budgetbook/BudgetBook/internal/budgeting/errors"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	// DateLayout is the calendar-date wire format for transaction dates.
	DateLayout = "2006-01-02"

	maxNameLength     = 120
	maxCategoryLength = 64
)

type Transaction struct {
	ID        string
	BudgetID  string
	Name      string
	Amount    float64
	Type      string
	Category  string
	Date      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransactionDTO struct {
	ID        string    `json:"id"`
	BudgetID  string    `json:"budget_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transaction) DTO() TransactionDTO {
	return TransactionDTO{
		ID:        t.ID,
		BudgetID:  t.BudgetID,
		Name:      t.Name,
		Amount:    t.Amount,
		Type:      t.Type,
		Category:  t.Category,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (t *Transaction) Validate() error {
	if t.Name == "" {
		return budErrors.NewFieldValidationError("name", "Name is required")
	}
	if len(t.Name) > maxNameLength {
		return budErrors.NewFieldValidationError("name", "Name is too long")
	}
	if t.Amount < 0 {
		return budErrors.NewFieldValidationError("amount", "Amount must not be negative")
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return budErrors.NewFieldValidationError("type", "Type must be 'income' or 'expense'")
	}
	if len(t.Category) > maxCategoryLength {
		return budErrors.NewFieldValidationError("category", "Category is too long")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return budErrors.NewFieldValidationError("date", "Date must use the YYYY-MM-DD format")
	}
	return nil
}

// UpdateCommand enumerates exactly which transaction fields a caller may
// patch. The budget id is deliberately absent: a transaction can never be
// moved to another budget through an update.
type UpdateCommand struct {
	Name     *string  `json:"name,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
}

func (c UpdateCommand) Empty() bool {
	return c.Name == nil && c.Amount == nil && c.Type == nil && c.Category == nil && c.Date == nil
}
