package transactions

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, transaction *Transaction) error
	FindByID(ctx context.Context, transactionID string, transaction *Transaction) error
	FindByBudget(ctx context.Context, budgetID string) ([]Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (int64, error)
	Delete(ctx context.Context, transactionID string) (int64, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *Transaction) error {
	query := `INSERT INTO transactions (id, budget_id, name, amount, type, category, date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		transaction.ID, transaction.BudgetID, transaction.Name, transaction.Amount,
		transaction.Type, transaction.Category, transaction.Date, transaction.CreatedAt, transaction.UpdatedAt)
	return err
}

func (r *transactionRepository) FindByID(ctx context.Context, transactionID string, transaction *Transaction) error {
	query := `SELECT id, budget_id, name, amount, type, category, date, created_at, updated_at
              FROM transactions WHERE id = $1`

	var date time.Time
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&transaction.ID, &transaction.BudgetID, &transaction.Name, &transaction.Amount,
		&transaction.Type, &transaction.Category, &date, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return err
	}
	transaction.Date = date.Format(DateLayout)
	return nil
}

func (r *transactionRepository) FindByBudget(ctx context.Context, budgetID string) ([]Transaction, error) {
	query := `SELECT id, budget_id, name, amount, type, category, date, created_at, updated_at
              FROM transactions WHERE budget_id = $1
              ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var transaction Transaction
		var date time.Time
		if err := rows.Scan(&transaction.ID, &transaction.BudgetID, &transaction.Name, &transaction.Amount,
			&transaction.Type, &transaction.Category, &date, &transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
			return nil, err
		}
		transaction.Date = date.Format(DateLayout)
		list = append(list, transaction)
	}
	return list, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, transaction *Transaction) (int64, error) {
	query := `UPDATE transactions
              SET name = $1, amount = $2, type = $3, category = $4, date = $5, updated_at = $6
              WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		transaction.Name, transaction.Amount, transaction.Type, transaction.Category,
		transaction.Date, time.Now(), transaction.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *transactionRepository) Delete(ctx context.Context, transactionID string) (int64, error) {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, transactionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
