package transactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
	budErrors "github.com/budgetbook/BudgetBook/internal/budgeting/errors"
	"github.com/budgetbook/BudgetBook/internal/notify"
)

const (
	budgetAlice = "4a1f8f66-8b5a-4c3f-9a75-2f6f4f1c0a01"
	budgetBob   = "9c2d7e31-1f40-4d8e-b0aa-6d9f3c2e1b02"

	txnGroceries = "7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03"
)

func newTestSetup() (*MockTransactionRepository, Service) {
	repo := &MockTransactionRepository{}
	budgetService := &MockBudgetService{Owners: map[string]string{
		budgetAlice: "alice",
		budgetBob:   "bob",
	}}
	service := NewTransactionService(repo, budgetService, notify.NewNoopNotifier())
	return repo, service
}

func TestCreateTransaction_RoundTrip(t *testing.T) {
	repo, service := newTestSetup()

	created, err := service.CreateTransaction(context.Background(), "alice", Transaction{
		BudgetID: budgetAlice,
		Name:     "Salary",
		Amount:   3200,
		Type:     TypeIncome,
		Category: "work",
		Date:     "2025-03-01",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, repo.Transactions, 1)

	list, err := service.ListTransactions(context.Background(), "alice", budgetAlice)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Salary", list[0].Name)
	assert.Equal(t, 3200.0, list[0].Amount)
}

func TestCreateTransaction_IntoForeignBudgetIsForbidden(t *testing.T) {
	repo, service := newTestSetup()

	_, err := service.CreateTransaction(context.Background(), "alice", Transaction{
		BudgetID: budgetBob,
		Name:     "Sneaky",
		Amount:   10,
		Type:     TypeExpense,
		Date:     "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.Transactions)
}

func TestCreateTransaction_IntoMissingBudgetIsNotFound(t *testing.T) {
	repo, service := newTestSetup()

	_, err := service.CreateTransaction(context.Background(), "alice", Transaction{
		BudgetID: "00000000-0000-0000-0000-000000000000",
		Name:     "Orphan",
		Amount:   10,
		Type:     TypeExpense,
		Date:     "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrBudgetNotFound)
	assert.Empty(t, repo.Transactions)
}

func TestCreateTransaction_Validation(t *testing.T) {
	repo, service := newTestSetup()

	cases := []Transaction{
		{BudgetID: budgetAlice, Name: "", Amount: 10, Type: TypeExpense, Date: "2025-03-01"},
		{BudgetID: budgetAlice, Name: "Negative", Amount: -5, Type: TypeExpense, Date: "2025-03-01"},
		{BudgetID: budgetAlice, Name: "Bad type", Amount: 10, Type: "transfer", Date: "2025-03-01"},
		{BudgetID: budgetAlice, Name: "Bad date", Amount: 10, Type: TypeExpense, Date: "01/03/2025"},
	}
	for _, draft := range cases {
		_, err := service.CreateTransaction(context.Background(), "alice", draft)
		assert.True(t, budErrors.IsValidationError(err), "expected validation error for %q", draft.Name)
	}
	assert.Empty(t, repo.Transactions)
}

func TestListTransactions_ForeignBudgetLooksMissing(t *testing.T) {
	_, service := newTestSetup()

	_, err := service.ListTransactions(context.Background(), "alice", budgetBob)
	assert.ErrorIs(t, err, budgets.ErrBudgetNotFound)
}

func TestListTransactions_EmptyIsNotNil(t *testing.T) {
	_, service := newTestSetup()

	list, err := service.ListTransactions(context.Background(), "alice", budgetAlice)
	assert.NoError(t, err)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}

func TestUpdateTransaction_PartialPatch(t *testing.T) {
	repo, service := newTestSetup()
	repo.Transactions = []Transaction{
		{ID: txnGroceries, BudgetID: budgetAlice, Name: "Groceries", Amount: 82.40, Type: TypeExpense, Category: "food", Date: "2025-03-10"},
	}

	newAmount := 90.10
	updated, err := service.UpdateTransaction(context.Background(), "alice", txnGroceries, UpdateCommand{Amount: &newAmount})
	assert.NoError(t, err)
	assert.Equal(t, 90.10, updated.Amount)
	assert.Equal(t, "Groceries", updated.Name, "unpatched fields keep their value")
	assert.Equal(t, budgetAlice, updated.BudgetID)
}

func TestUpdateTransaction_ByNonOwnerFailsAndLeavesRecordUntouched(t *testing.T) {
	repo, service := newTestSetup()
	repo.Transactions = []Transaction{
		{ID: txnGroceries, BudgetID: budgetAlice, Name: "Groceries", Amount: 82.40, Type: TypeExpense, Date: "2025-03-10"},
	}

	newName := "Hijacked"
	_, err := service.UpdateTransaction(context.Background(), "bob", txnGroceries, UpdateCommand{Name: &newName})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, "Groceries", repo.Transactions[0].Name)
	assert.Equal(t, 82.40, repo.Transactions[0].Amount)
}

func TestUpdateTransaction_CallerWithNoBudgetsIsUnauthorized(t *testing.T) {
	repo, service := newTestSetup()
	repo.Transactions = []Transaction{
		{ID: txnGroceries, BudgetID: budgetAlice, Name: "Groceries", Amount: 82.40, Type: TypeExpense, Date: "2025-03-10"},
	}

	newName := "Anything"
	_, err := service.UpdateTransaction(context.Background(), "stranger", txnGroceries, UpdateCommand{Name: &newName})
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestDeleteTransaction_ByNonOwnerFails(t *testing.T) {
	repo, service := newTestSetup()
	repo.Transactions = []Transaction{
		{ID: txnGroceries, BudgetID: budgetAlice, Name: "Groceries", Amount: 82.40, Type: TypeExpense, Date: "2025-03-10"},
	}

	err := service.DeleteTransaction(context.Background(), "bob", txnGroceries)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Len(t, repo.Transactions, 1)

	err = service.DeleteTransaction(context.Background(), "alice", txnGroceries)
	assert.NoError(t, err)
	assert.Empty(t, repo.Transactions)
}

func TestDeleteTransaction_CallerWithNoBudgetsIsUnauthorized(t *testing.T) {
	repo, service := newTestSetup()
	repo.Transactions = []Transaction{
		{ID: txnGroceries, BudgetID: budgetAlice, Name: "Groceries", Amount: 82.40, Type: TypeExpense, Date: "2025-03-10"},
	}

	err := service.DeleteTransaction(context.Background(), "stranger", txnGroceries)
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestListTransactions_AfterBudgetDeleteLooksMissing(t *testing.T) {
	repo := &MockTransactionRepository{}
	budgetService := &MockBudgetService{Owners: map[string]string{budgetAlice: "alice"}}
	service := NewTransactionService(repo, budgetService, notify.NewNoopNotifier())

	_, err := service.CreateTransaction(context.Background(), "alice", Transaction{
		BudgetID: budgetAlice, Name: "Coffee", Amount: 4.5, Type: TypeExpense, Date: "2025-03-02",
	})
	assert.NoError(t, err)

	err = budgetService.DeleteBudget(context.Background(), "alice", budgetAlice)
	assert.NoError(t, err)

	_, err = service.ListTransactions(context.Background(), "alice", budgetAlice)
	assert.ErrorIs(t, err, budgets.ErrBudgetNotFound)
}
