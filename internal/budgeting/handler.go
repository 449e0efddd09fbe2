package budgeting

import (
	"encoding/json"
	"errors"
	"net/http"

	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
	budErrors "github.com/budgetbook/BudgetBook/internal/budgeting/errors"
	transactions "github.com/budgetbook/BudgetBook/internal/budgeting/transaction"
)

type BudgetingHandler struct {
	budgetService      budgets.Service
	transactionService transactions.Service
	respondJSON        func(w http.ResponseWriter, status int, payload interface{})
	respondError       func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewBudgetingHandler(
	budgetService budgets.Service,
	transactionService transactions.Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *BudgetingHandler {
	return &BudgetingHandler{
		budgetService:      budgetService,
		transactionService: transactionService,
		respondJSON:        respondJSON,
		respondError:       respondError,
	}
}

type createBudgetRequest struct {
	Name  string `json:"name"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
}

type createTransactionRequest struct {
	BudgetID string  `json:"budget_id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

func (h *BudgetingHandler) getUserIDReq(w http.ResponseWriter, r *http.Request) string {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}
	return userID
}

// decodeStrict rejects bodies containing fields outside the target struct, so
// owner or id fields smuggled into a patch never reach the update set.
func decodeStrict(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func (h *BudgetingHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	list, err := h.budgetService.ListBudgets(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve budgets")
		return
	}

	query := r.URL.Query()
	list = budgets.FilterBudgets(list, query.Get("search"), query.Get("year"))
	if sortKey := query.Get("sort"); sortKey != "" {
		list = budgets.SortBudgets(list, sortKey)
	}

	dtos := make([]budgets.BudgetDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, list[i].DTO())
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   dtos,
	})
}

func (h *BudgetingHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var req createBudgetRequest
	if err := decodeStrict(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.budgetService.CreateBudget(r.Context(), userID, req.Name, req.Month, req.Year)
	if err != nil {
		if budErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully created.",
		"data":    budget.DTO(),
	})
}

func (h *BudgetingHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	budget, err := h.budgetService.GetBudget(r.Context(), userID, r.PathValue("budgetID"))
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   budget.DTO(),
	})
}

func (h *BudgetingHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var cmd budgets.UpdateCommand
	if err := decodeStrict(r, &cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if cmd.Empty() {
		h.respondError(w, http.StatusBadRequest, "At least one field (name, month or year) must be provided for update")
		return
	}

	budget, err := h.budgetService.UpdateBudget(r.Context(), userID, r.PathValue("budgetID"), cmd)
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		if budErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to update budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   budget.DTO(),
	})
}

func (h *BudgetingHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	err := h.budgetService.DeleteBudget(r.Context(), userID, r.PathValue("budgetID"))
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget and its transactions successfully deleted.",
	})
}

func (h *BudgetingHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	list, err := h.transactionService.ListTransactions(r.Context(), userID, r.PathValue("budgetID"))
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	query := r.URL.Query()
	if search := query.Get("search"); search != "" {
		list = transactions.FilterByName(list, search)
	}
	if sortKey := query.Get("sort"); sortKey != "" {
		list = transactions.SortTransactions(list, sortKey)
	}

	dtos := make([]transactions.TransactionDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, list[i].DTO())
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   dtos,
	})
}

func (h *BudgetingHandler) GetBudgetSummary(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	list, err := h.transactionService.ListTransactions(r.Context(), userID, r.PathValue("budgetID"))
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to compute budget summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transactions.Summarize(list),
	})
}

func (h *BudgetingHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var req createTransactionRequest
	if err := decodeStrict(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BudgetID == "" {
		h.respondError(w, http.StatusBadRequest, "Budget id is required")
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), userID, transactions.Transaction{
		BudgetID: req.BudgetID,
		Name:     req.Name,
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		if errors.Is(err, budgets.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		if errors.Is(err, transactions.ErrForbidden) {
			h.respondError(w, http.StatusForbidden, "Budget belongs to another user")
			return
		}
		if budErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction.DTO(),
	})
}

func (h *BudgetingHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var cmd transactions.UpdateCommand
	if err := decodeStrict(r, &cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if cmd.Empty() {
		h.respondError(w, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(r.Context(), userID, r.PathValue("transactionID"), cmd)
	if err != nil {
		h.respondTransactionError(w, err, "Failed to update transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transaction.DTO(),
	})
}

func (h *BudgetingHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	err := h.transactionService.DeleteTransaction(r.Context(), userID, r.PathValue("transactionID"))
	if err != nil {
		h.respondTransactionError(w, err, "Failed to delete transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully deleted.",
	})
}

func (h *BudgetingHandler) respondTransactionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, transactions.ErrTransactionNotFound):
		h.respondError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, transactions.ErrUnauthorizedAccess):
		h.respondError(w, http.StatusUnauthorized, "Unauthorized access to transaction")
	case budErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
