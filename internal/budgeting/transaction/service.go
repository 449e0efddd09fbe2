package transactions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	budgets "github.com/budgetbook/BudgetBook/internal/budgeting/budget"
	"github.com/budgetbook/BudgetBook/internal/notify"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrBudgetNotFound is returned when the target budget does not exist.
	ErrBudgetNotFound = budgets.ErrBudgetNotFound
	// ErrForbidden is returned when the target budget exists but belongs to
	// another user. Distinguishable from not-found only because the budget
	// lookup already happened.
	ErrForbidden = errors.New("forbidden: budget belongs to another user")
	// ErrUnauthorizedAccess is returned when the caller owns no budgets at all.
	ErrUnauthorizedAccess = errors.New("unauthorized: user owns no budgets")
)

type Service interface {
	ListTransactions(ctx context.Context, userID, budgetID string) ([]Transaction, error)
	CreateTransaction(ctx context.Context, userID string, draft Transaction) (*Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, cmd UpdateCommand) (*Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

type service struct {
	transactionRepo Repository
	budgetService   budgets.Service
	notifier        notify.Notifier
}

func NewTransactionService(repo Repository, budgetService budgets.Service, notifier notify.Notifier) Service {
	return &service{
		transactionRepo: repo,
		budgetService:   budgetService,
		notifier:        notifier,
	}
}

// ListTransactions verifies budget ownership first; a budget owned by someone
// else fails exactly like a missing one.
func (s *service) ListTransactions(ctx context.Context, userID, budgetID string) ([]Transaction, error) {
	if _, err := s.budgetService.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	list, err := s.transactionRepo.FindByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Transaction{}
	}
	return list, nil
}

func (s *service) CreateTransaction(ctx context.Context, userID string, draft Transaction) (*Transaction, error) {
	ownerID, err := s.budgetService.BudgetOwner(ctx, draft.BudgetID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	transaction := &Transaction{
		ID:        uuid.New().String(),
		BudgetID:  draft.BudgetID,
		Name:      draft.Name,
		Amount:    draft.Amount,
		Type:      draft.Type,
		Category:  draft.Category,
		Date:      draft.Date,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityTransaction, notify.ActionCreated, transaction.ID, transaction.BudgetID, userID))
	return transaction, nil
}

func (s *service) UpdateTransaction(ctx context.Context, userID, transactionID string, cmd UpdateCommand) (*Transaction, error) {
	transaction, err := s.findOwned(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		transaction.Name = *cmd.Name
	}
	if cmd.Amount != nil {
		transaction.Amount = *cmd.Amount
	}
	if cmd.Type != nil {
		transaction.Type = *cmd.Type
	}
	if cmd.Category != nil {
		transaction.Category = *cmd.Category
	}
	if cmd.Date != nil {
		transaction.Date = *cmd.Date
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.transactionRepo.Update(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTransactionNotFound
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityTransaction, notify.ActionUpdated, transaction.ID, transaction.BudgetID, userID))
	return transaction, nil
}

func (s *service) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.findOwned(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	affected, err := s.transactionRepo.Delete(ctx, transaction.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityTransaction, notify.ActionDeleted, transaction.ID, transaction.BudgetID, userID))
	return nil
}

// findOwned resolves the caller's budget id set and admits the transaction
// only when its parent budget is in that set. Ownership is transitive through
// the budget and never stored on the transaction itself.
func (s *service) findOwned(ctx context.Context, userID, transactionID string) (*Transaction, error) {
	ownedIDs, err := s.budgetService.OwnedBudgetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return nil, ErrUnauthorizedAccess
	}

	if uuid.Validate(transactionID) != nil {
		return nil, ErrTransactionNotFound
	}

	var transaction Transaction
	err = s.transactionRepo.FindByID(ctx, transactionID, &transaction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	for _, id := range ownedIDs {
		if id == transaction.BudgetID {
			return &transaction, nil
		}
	}
	return nil, ErrTransactionNotFound
}
