// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"papertrade/internal/domain"
)

// TransactionRepository defines the interface for ledger data operations.
// The ledger is append-only: there are no update or delete operations.
type TransactionRepository interface {
	// CreateTransaction appends a new ledger entry.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByUserID retrieves the user's full transaction log in
	// execution order.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Transaction, error)
	// GetHoldings derives the user's current holdings by aggregating the
	// ledger; symbols with a net zero share count are excluded.
	GetHoldings(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
	// GetSharesHeld returns the user's net share count for one symbol.
	GetSharesHeld(ctx context.Context, q DBExecutor, userID int64, symbol string) (int64, error)
}
