package budgets

import (
	"time"

	budErrors "github.com/budgetbook/BudgetBook/internal/budgeting/errors"
)

const maxNameLength = 120

type Budget struct {
	ID        string
	UserID    string
	Name      string
	Month     int
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BudgetDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Budget) DTO() BudgetDTO {
	return BudgetDTO{
		ID:        b.ID,
		Name:      b.Name,
		Month:     b.Month,
		Year:      b.Year,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *Budget) Validate() error {
	if b.Name == "" {
		return budErrors.NewFieldValidationError("name", "Name is required")
	}
	if len(b.Name) > maxNameLength {
		return budErrors.NewFieldValidationError("name", "Name is too long")
	}
	if b.Month < 1 || b.Month > 12 {
		return budErrors.NewFieldValidationError("month", "Month must be between 1 and 12")
	}
	if b.Year < 1900 || b.Year > 9999 {
		return budErrors.NewFieldValidationError("year", "Year is out of range")
	}
	return nil
}

// UpdateCommand enumerates exactly which budget fields a caller may patch.
// The owning user is never part of the command, so an update can never move
// a budget between accounts.
type UpdateCommand struct {
	Name  *string `json:"name,omitempty"`
	Month *int    `json:"month,omitempty"`
	Year  *int    `json:"year,omitempty"`
}

func (c UpdateCommand) Empty() bool {
	return c.Name == nil && c.Month == nil && c.Year == nil
}
