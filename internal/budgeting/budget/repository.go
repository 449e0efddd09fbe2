package budgets

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, budget *Budget) error
	FindByOwner(ctx context.Context, budgetID, userID string, budget *Budget) error
	FindOwner(ctx context.Context, budgetID string) (string, error)
	FindByUser(ctx context.Context, userID string) ([]Budget, error)
	FindIDsByUser(ctx context.Context, userID string) ([]string, error)
	Update(ctx context.Context, budget *Budget) (int64, error)
	Delete(ctx context.Context, budgetID, userID string) (int64, error)
}

type budgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) Repository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *Budget) error {
	query := `INSERT INTO budgets (id, user_id, name, month, year, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, budget.ID, budget.UserID, budget.Name, budget.Month, budget.Year, budget.CreatedAt, budget.UpdatedAt)
	return err
}

// FindByOwner resolves a budget only when it belongs to userID. A missing row
// and a row owned by someone else are indistinguishable to the caller.
func (r *budgetRepository) FindByOwner(ctx context.Context, budgetID, userID string, budget *Budget) error {
	query := `SELECT id, user_id, name, month, year, created_at, updated_at
              FROM budgets WHERE id = $1 AND user_id = $2`

	return r.db.QueryRowContext(ctx, query, budgetID, userID).Scan(
		&budget.ID, &budget.UserID, &budget.Name, &budget.Month, &budget.Year, &budget.CreatedAt, &budget.UpdatedAt)
}

func (r *budgetRepository) FindOwner(ctx context.Context, budgetID string) (string, error) {
	query := `SELECT user_id FROM budgets WHERE id = $1`

	var ownerID string
	err := r.db.QueryRowContext(ctx, query, budgetID).Scan(&ownerID)
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

func (r *budgetRepository) FindByUser(ctx context.Context, userID string) ([]Budget, error) {
	query := `SELECT id, user_id, name, month, year, created_at, updated_at
              FROM budgets WHERE user_id = $1
              ORDER BY year DESC, month DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Budget
	for rows.Next() {
		var budget Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.Name, &budget.Month, &budget.Year, &budget.CreatedAt, &budget.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, budget)
	}
	return list, rows.Err()
}

func (r *budgetRepository) FindIDsByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT id FROM budgets WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *budgetRepository) Update(ctx context.Context, budget *Budget) (int64, error) {
	query := `UPDATE budgets
              SET name = $1, month = $2, year = $3, updated_at = $4
              WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query, budget.Name, budget.Month, budget.Year, time.Now(), budget.ID, budget.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes the budget row; the transactions FK cascades at the storage
// layer, so child rows disappear atomically with the budget.
func (r *budgetRepository) Delete(ctx context.Context, budgetID, userID string) (int64, error) {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, budgetID, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
