package transactions

import (
	"context"
	"database/sql"

	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
)

// MockTransactionRepository is an in-memory Repository used by service tests.
type MockTransactionRepository struct {
	Transactions []Transaction
	Err          error
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction *Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, transactionID string, transaction *Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	for _, tr := range m.Transactions {
		if tr.ID == transactionID {
			*transaction = tr
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *MockTransactionRepository) FindByBudget(_ context.Context, budgetID string) ([]Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var list []Transaction
	for _, tr := range m.Transactions {
		if tr.BudgetID == budgetID {
			list = append(list, tr)
		}
	}
	return list, nil
}

func (m *MockTransactionRepository) Update(_ context.Context, transaction *Transaction) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, tr := range m.Transactions {
		if tr.ID == transaction.ID {
			m.Transactions[i] = *transaction
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockTransactionRepository) Delete(_ context.Context, transactionID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, tr := range m.Transactions {
		if tr.ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// MockBudgetService answers ownership questions from a fixed owner map.
type MockBudgetService struct {
	// Owners maps budget id to owning user id.
	Owners map[string]string
}

func (m *MockBudgetService) ListBudgets(_ context.Context, userID string) ([]budgets.Budget, error) {
	var list []budgets.Budget
	for id, owner := range m.Owners {
		if owner == userID {
			list = append(list, budgets.Budget{ID: id, UserID: owner})
		}
	}
	return list, nil
}

func (m *MockBudgetService) GetBudget(_ context.Context, userID, budgetID string) (*budgets.Budget, error) {
	owner, ok := m.Owners[budgetID]
	if !ok || owner != userID {
		return nil, budgets.ErrBudgetNotFound
	}
	return &budgets.Budget{ID: budgetID, UserID: owner}, nil
}

func (m *MockBudgetService) CreateBudget(_ context.Context, userID, name string, month, year int) (*budgets.Budget, error) {
	return &budgets.Budget{UserID: userID, Name: name, Month: month, Year: year}, nil
}

func (m *MockBudgetService) UpdateBudget(_ context.Context, userID, budgetID string, _ budgets.UpdateCommand) (*budgets.Budget, error) {
	return m.GetBudget(context.Background(), userID, budgetID)
}

func (m *MockBudgetService) DeleteBudget(_ context.Context, userID, budgetID string) error {
	_, err := m.GetBudget(context.Background(), userID, budgetID)
	if err != nil {
		return err
	}
	delete(m.Owners, budgetID)
	return nil
}

func (m *MockBudgetService) BudgetOwner(_ context.Context, budgetID string) (string, error) {
	owner, ok := m.Owners[budgetID]
	if !ok {
		return "", budgets.ErrBudgetNotFound
	}
	return owner, nil
}

func (m *MockBudgetService) OwnedBudgetIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id, owner := range m.Owners {
		if owner == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
