// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, symbol, company, quantity, price, total, executed_at, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Symbol,
		transaction.Company,
		transaction.Quantity,
		transaction.Price,
		transaction.Total,
		transaction.ExecutedAt,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUserID retrieves the user's full transaction log in
// execution order.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, user_id, symbol, company, quantity, price, total, executed_at, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY executed_at, id`
	err := q.SelectContext(ctx, &transactions, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}
	return transactions, nil
}

// GetHoldings aggregates the ledger into current net holdings per symbol.
// Symbols whose net share count is zero stay in history but are excluded here.
func (r *TransactionRepository) GetHoldings(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `
		SELECT symbol, SUM(quantity) AS shares
		FROM transactions
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(quantity) > 0
		ORDER BY symbol`
	err := q.SelectContext(ctx, &holdings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// GetSharesHeld returns the user's net share count for one symbol.
func (r *TransactionRepository) GetSharesHeld(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (int64, error) {
	var shares int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM transactions WHERE user_id = $1 AND symbol = $2`
	err := q.GetContext(ctx, &shares, query, userID, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to get shares held by user %d for %s: %w", userID, symbol, err)
	}
	return shares, nil
}
