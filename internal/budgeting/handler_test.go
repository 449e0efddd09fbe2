package budgeting

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
	transactions "github.com/budgetbook/BudgetBook/internal/budgeting/transaction"
	"github.com/budgetbook/BudgetBook/internal/notify"
)

const (
	budgetAlice = "4a1f8f66-8b5a-4c3f-9a75-2f6f4f1c0a01"
	budgetBob   = "9c2d7e31-1f40-4d8e-b0aa-6d9f3c2e1b02"
)

func newTestHandler() (*BudgetingHandler, *budgets.MockBudgetRepository, *transactions.MockTransactionRepository) {
	budgetRepo := &budgets.MockBudgetRepository{Budgets: []budgets.Budget{
		{ID: budgetAlice, UserID: "alice", Name: "March budget", Month: 3, Year: 2025},
		{ID: budgetBob, UserID: "bob", Name: "Bob's budget", Month: 3, Year: 2025},
	}}
	transactionRepo := &transactions.MockTransactionRepository{}

	notifier := notify.NewNoopNotifier()
	budgetService := budgets.NewBudgetService(budgetRepo, notifier)
	transactionService := transactions.NewTransactionService(transactionRepo, budgetService, notifier)
	handler := NewBudgetingHandler(budgetService, transactionService, respondJSON, respondError)
	return handler, budgetRepo, transactionRepo
}

func authedRequest(method, target, userID string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), "userID", userID))
}

func decodeResponse(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	return response
}

func TestListBudgets_ReturnsOnlyCallersBudgets(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := authedRequest(http.MethodGet, "/api/protected/budgets", "alice", nil)
	w := httptest.NewRecorder()
	handler.ListBudgets(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	response := decodeResponse(t, res)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "March budget", first["name"])
	_, hasOwner := first["user_id"]
	assert.False(t, hasOwner, "owner id must not leak into the response")
}

func TestListBudgets_WithoutUserIDIsUnauthorized(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/protected/budgets", nil)
	w := httptest.NewRecorder()
	handler.ListBudgets(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateBudget_Success(t *testing.T) {
	handler, repo, _ := newTestHandler()

	body, _ := json.Marshal(map[string]interface{}{"name": "April budget", "month": 4, "year": 2025})
	req := authedRequest(http.MethodPost, "/api/protected/budgets", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Len(t, repo.Budgets, 3)
}

func TestCreateBudget_RejectsUnknownFields(t *testing.T) {
	handler, repo, _ := newTestHandler()

	body := []byte(`{"name":"Sneaky","month":4,"year":2025,"user_id":"bob"}`)
	req := authedRequest(http.MethodPost, "/api/protected/budgets", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Len(t, repo.Budgets, 2)
}

func TestCreateBudget_ValidationError(t *testing.T) {
	handler, _, _ := newTestHandler()

	body, _ := json.Marshal(map[string]interface{}{"name": "Bad month", "month": 13, "year": 2025})
	req := authedRequest(http.MethodPost, "/api/protected/budgets", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	response := decodeResponse(t, res)
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, float64(http.StatusBadRequest), response["code"])
}

func TestGetBudget_ForeignBudgetIsNotFound(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := authedRequest(http.MethodGet, "/api/protected/budgets/"+budgetBob, "alice", nil)
	req.SetPathValue("budgetID", budgetBob)
	w := httptest.NewRecorder()
	handler.GetBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateBudget_EmptyPatchIsRejected(t *testing.T) {
	handler, _, _ := newTestHandler()

	req := authedRequest(http.MethodPatch, "/api/protected/budgets/"+budgetAlice, "alice", []byte(`{}`))
	req.SetPathValue("budgetID", budgetAlice)
	w := httptest.NewRecorder()
	handler.UpdateBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteBudget_Success(t *testing.T) {
	handler, repo, _ := newTestHandler()

	req := authedRequest(http.MethodDelete, "/api/protected/budgets/"+budgetAlice, "alice", nil)
	req.SetPathValue("budgetID", budgetAlice)
	w := httptest.NewRecorder()
	handler.DeleteBudget(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, repo.Budgets, 1)
}

func TestCreateTransaction_ForeignBudgetIsForbidden(t *testing.T) {
	handler, _, repo := newTestHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"budget_id": budgetBob,
		"name":      "Sneaky",
		"amount":    10.0,
		"type":      "expense",
		"date":      "2025-03-01",
	})
	req := authedRequest(http.MethodPost, "/api/protected/transactions", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Empty(t, repo.Transactions)
}

func TestCreateTransaction_MissingBudgetIsNotFound(t *testing.T) {
	handler, _, _ := newTestHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"budget_id": "00000000-0000-0000-0000-000000000000",
		"name":      "Orphan",
		"amount":    10.0,
		"type":      "expense",
		"date":      "2025-03-01",
	})
	req := authedRequest(http.MethodPost, "/api/protected/transactions", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCreateTransaction_RequiresBudgetID(t *testing.T) {
	handler, _, _ := newTestHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"name": "No budget", "amount": 10.0, "type": "expense", "date": "2025-03-01",
	})
	req := authedRequest(http.MethodPost, "/api/protected/transactions", "alice", body)
	w := httptest.NewRecorder()
	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListTransactions_AppliesSearchAndSort(t *testing.T) {
	handler, _, repo := newTestHandler()
	repo.Transactions = []transactions.Transaction{
		{ID: "1", BudgetID: budgetAlice, Name: "Salary", Amount: 3000, Type: "income", Date: "2025-03-01"},
		{ID: "2", BudgetID: budgetAlice, Name: "Groceries", Amount: 80, Type: "expense", Date: "2025-03-10"},
		{ID: "3", BudgetID: budgetAlice, Name: "Gas", Amount: 55, Type: "expense", Date: "2025-03-05"},
	}

	req := authedRequest(http.MethodGet, "/api/protected/budgets/"+budgetAlice+"/transactions?search=g&sort=amount-asc", "alice", nil)
	req.SetPathValue("budgetID", budgetAlice)
	w := httptest.NewRecorder()
	handler.ListTransactions(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	response := decodeResponse(t, res)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	assert.Equal(t, "Gas", data[0].(map[string]interface{})["name"])
	assert.Equal(t, "Groceries", data[1].(map[string]interface{})["name"])
}

func TestGetBudgetSummary(t *testing.T) {
	handler, _, repo := newTestHandler()
	repo.Transactions = []transactions.Transaction{
		{ID: "1", BudgetID: budgetAlice, Name: "Salary", Amount: 3000, Type: "income", Date: "2025-03-01"},
		{ID: "2", BudgetID: budgetAlice, Name: "Rent", Amount: 1200, Type: "expense", Date: "2025-03-03"},
		{ID: "3", BudgetID: budgetAlice, Name: "Coffee", Amount: 4.5, Type: "expense", Date: "2025-03-04"},
	}

	req := authedRequest(http.MethodGet, "/api/protected/budgets/"+budgetAlice+"/summary", "alice", nil)
	req.SetPathValue("budgetID", budgetAlice)
	w := httptest.NewRecorder()
	handler.GetBudgetSummary(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	response := decodeResponse(t, res)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 3000.0, data["total_income"])
	assert.Equal(t, 1204.5, data["total_expense"])
	assert.Equal(t, 1795.5, data["balance"])
	highest := data["highest_expense"].(map[string]interface{})
	assert.Equal(t, "Rent", highest["name"])
}

func TestUpdateTransaction_RejectsBudgetIDPatch(t *testing.T) {
	handler, _, repo := newTestHandler()
	repo.Transactions = []transactions.Transaction{
		{ID: "7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03", BudgetID: budgetAlice, Name: "Groceries", Amount: 80, Type: "expense", Date: "2025-03-10"},
	}

	body := []byte(`{"budget_id":"` + budgetBob + `"}`)
	req := authedRequest(http.MethodPatch, "/api/protected/transactions/7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03", "alice", body)
	req.SetPathValue("transactionID", "7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03")
	w := httptest.NewRecorder()
	handler.UpdateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, budgetAlice, repo.Transactions[0].BudgetID)
}

func TestDeleteTransaction_CallerWithNoBudgetsIsUnauthorized(t *testing.T) {
	handler, _, repo := newTestHandler()
	repo.Transactions = []transactions.Transaction{
		{ID: "7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03", BudgetID: budgetAlice, Name: "Groceries", Amount: 80, Type: "expense", Date: "2025-03-10"},
	}

	req := authedRequest(http.MethodDelete, "/api/protected/transactions/7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03", "carol", nil)
	req.SetPathValue("transactionID", "7b3e9d24-5c61-4f2a-8e17-0a4b5c6d7e03")
	w := httptest.NewRecorder()
	handler.DeleteTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Len(t, repo.Transactions, 1)
}
