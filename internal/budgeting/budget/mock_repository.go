package budgets

import (
	"context"
	"database/sql"
)

// MockBudgetRepository is an in-memory Repository used by service tests.
type MockBudgetRepository struct {
	Budgets []Budget
	Err     error
}

func (m *MockBudgetRepository) Create(_ context.Context, budget *Budget) error {
	if m.Err != nil {
		return m.Err
	}
	m.Budgets = append(m.Budgets, *budget)
	return nil
}

func (m *MockBudgetRepository) FindByOwner(_ context.Context, budgetID, userID string, budget *Budget) error {
	if m.Err != nil {
		return m.Err
	}
	for _, b := range m.Budgets {
		if b.ID == budgetID && b.UserID == userID {
			*budget = b
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *MockBudgetRepository) FindOwner(_ context.Context, budgetID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for _, b := range m.Budgets {
		if b.ID == budgetID {
			return b.UserID, nil
		}
	}
	return "", sql.ErrNoRows
}

func (m *MockBudgetRepository) FindByUser(_ context.Context, userID string) ([]Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var list []Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (m *MockBudgetRepository) FindIDsByUser(_ context.Context, userID string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var ids []string
	for _, b := range m.Budgets {
		if b.UserID == userID {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (m *MockBudgetRepository) Update(_ context.Context, budget *Budget) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, b := range m.Budgets {
		if b.ID == budget.ID && b.UserID == budget.UserID {
			m.Budgets[i] = *budget
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockBudgetRepository) Delete(_ context.Context, budgetID, userID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, b := range m.Budgets {
		if b.ID == budgetID && b.UserID == userID {
			m.Budgets = append(m.Budgets[:i], m.Budgets[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
