// internal/service/trading_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/util"
	"papertrade/pkg/db"
)

// TradingService defines the business logic of the trading simulator.
// Every operation takes the authenticated user id explicitly.
type TradingService interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error)
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error)
	Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error)
	History(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

// tradingService implements the TradingService interface.
type tradingService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	quotes          quote.Provider
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewTradingService creates a new instance of TradingService.
func NewTradingService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	quotes quote.Provider,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TradingService {
	return &tradingService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		quotes:          quotes,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Quote looks up the current market quote for a symbol.
func (s *tradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, util.ErrInvalidSymbol
	}
	return s.quotes.Lookup(ctx, symbol)
}

// Buy purchases shares at the current market price. The ledger insert and the
// cash debit commit together or not at all; the user row is locked so that
// concurrent trades from the same user serialize.
func (s *tradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error) {
	if shares <= 0 {
		return nil, nil, fmt.Errorf("%w: shares must be a positive whole number", util.ErrInvalidInput)
	}

	// The network call stays outside the DB transaction.
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to lock user %d: %w", userID, err)
	}

	if user.Cash.LessThan(cost) {
		return nil, nil, util.ErrInsufficientFunds
	}

	transaction := domain.NewTransaction(userID, q.Symbol, q.Name, shares, q.Price)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to create transaction: %w", err)
	}

	if err := s.userRepo.UpdateCash(ctx, txExecutor, userID, cost.Neg()); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to debit cash: %w", err)
	}

	updatedUser, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("buy: failed to re-fetch user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	return transaction, updatedUser, nil
}

// Sell disposes of shares at the current market price. The holding check, the
// ledger insert, and the cash credit run under the same user row lock, so the
// net share count for a symbol can never go negative.
func (s *tradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Transaction, *domain.User, error) {
	if shares <= 0 {
		return nil, nil, fmt.Errorf("%w: shares must be a positive whole number", util.ErrInvalidInput)
	}

	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	if _, err := s.userRepo.GetUserForUpdate(ctx, txExecutor, userID); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to lock user %d: %w", userID, err)
	}

	held, err := s.transactionRepo.GetSharesHeld(ctx, txExecutor, userID, q.Symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("sell: failed to get shares held: %w", err)
	}
	if held < shares {
		return nil, nil, util.ErrInsufficientShares
	}

	transaction := domain.NewTransaction(userID, q.Symbol, q.Name, -shares, q.Price)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to create transaction: %w", err)
	}

	if err := s.userRepo.UpdateCash(ctx, txExecutor, userID, proceeds); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to credit cash: %w", err)
	}

	updatedUser, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("sell: failed to re-fetch user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("sell: failed to commit transaction: %w", err)
	}

	return transaction, updatedUser, nil
}

// Portfolio derives the user's current holdings from the ledger and values
// them at current market prices. The result is recomputed on every call.
func (s *tradingService) Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to get user %d: %w", userID, err)
	}

	holdings, err := s.transactionRepo.GetHoldings(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to get holdings: %w", err)
	}

	positions := make([]domain.Position, 0, len(holdings))
	holdingsValue := decimal.Zero
	for _, h := range holdings {
		q, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			return nil, fmt.Errorf("portfolio: failed to quote %s: %w", h.Symbol, err)
		}
		value := q.Price.Mul(decimal.NewFromInt(h.Shares))
		positions = append(positions, domain.Position{
			Symbol: q.Symbol,
			Name:   q.Name,
			Shares: h.Shares,
			Price:  q.Price,
			Value:  value,
		})
		holdingsValue = holdingsValue.Add(value)
	}

	return &domain.Portfolio{
		Cash:          user.Cash,
		Positions:     positions,
		HoldingsValue: holdingsValue,
		GrandTotal:    user.Cash.Add(holdingsValue),
	}, nil
}

// History returns the user's full transaction log in execution order.
func (s *tradingService) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to fetch transactions: %w", err)
	}
	return transactions, nil
}
