package budgets

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/budgetbook/BudgetBook/internal/notify"
)

var (
	// ErrBudgetNotFound covers both a missing budget and a budget owned by a
	// different user, so callers cannot probe for other users' ids.
	ErrBudgetNotFound = errors.New("budget not found")
)

type Service interface {
	ListBudgets(ctx context.Context, userID string) ([]Budget, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*Budget, error)
	CreateBudget(ctx context.Context, userID, name string, month, year int) (*Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, cmd UpdateCommand) (*Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	BudgetOwner(ctx context.Context, budgetID string) (string, error)
	OwnedBudgetIDs(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	budgetRepo Repository
	notifier   notify.Notifier
}

func NewBudgetService(repo Repository, notifier notify.Notifier) Service {
	return &service{budgetRepo: repo, notifier: notifier}
}

func (s *service) ListBudgets(ctx context.Context, userID string) ([]Budget, error) {
	list, err := s.budgetRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Budget{}
	}
	return list, nil
}

func (s *service) GetBudget(ctx context.Context, userID, budgetID string) (*Budget, error) {
	if uuid.Validate(budgetID) != nil {
		return nil, ErrBudgetNotFound
	}

	var budget Budget
	err := s.budgetRepo.FindByOwner(ctx, budgetID, userID, &budget)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (s *service) CreateBudget(ctx context.Context, userID, name string, month, year int) (*Budget, error) {
	budget := &Budget{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Month:     month,
		Year:      year,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityBudget, notify.ActionCreated, budget.ID, "", userID))
	return budget, nil
}

func (s *service) UpdateBudget(ctx context.Context, userID, budgetID string, cmd UpdateCommand) (*Budget, error) {
	budget, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		budget.Name = *cmd.Name
	}
	if cmd.Month != nil {
		budget.Month = *cmd.Month
	}
	if cmd.Year != nil {
		budget.Year = *cmd.Year
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.budgetRepo.Update(ctx, budget)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBudgetNotFound
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityBudget, notify.ActionUpdated, budget.ID, "", userID))
	return budget, nil
}

func (s *service) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if uuid.Validate(budgetID) != nil {
		return ErrBudgetNotFound
	}

	affected, err := s.budgetRepo.Delete(ctx, budgetID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBudgetNotFound
	}

	s.notifier.EntityChanged(ctx, notify.NewChangeEvent(notify.EntityBudget, notify.ActionDeleted, budgetID, "", userID))
	return nil
}

func (s *service) BudgetOwner(ctx context.Context, budgetID string) (string, error) {
	if uuid.Validate(budgetID) != nil {
		return "", ErrBudgetNotFound
	}

	ownerID, err := s.budgetRepo.FindOwner(ctx, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrBudgetNotFound
		}
		return "", err
	}
	return ownerID, nil
}

func (s *service) OwnedBudgetIDs(ctx context.Context, userID string) ([]string, error) {
	return s.budgetRepo.FindIDsByUser(ctx, userID)
}
