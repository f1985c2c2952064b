package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by id.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of transactions touching an
	// account, newest first, with token-based pagination.
	ListTransactionsByAccount(ctx context.Context, accountID int64, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsForStatement retrieves all non-void transactions
	// touching an account within [from, to], ascending by date then id.
	ListTransactionsForStatement(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsOnOrAfter retrieves all non-void transactions touching
	// an account dated on or after asOf, used to rewind to an opening balance.
	ListTransactionsOnOrAfter(ctx context.Context, accountID int64, asOf time.Time) ([]domain.Transaction, error)

	// CountPendingByAccount counts PENDING transactions referencing an account.
	CountPendingByAccount(ctx context.Context, accountID int64) (int64, error)

	// DeriveBalanceFromLog folds the account's OPENING_BALANCE journal
	// entries and full non-void transaction log into a balance, ignoring
	// the cached balance column.
	DeriveBalanceFromLog(ctx context.Context, accountID int64) (decimal.Decimal, error)
}

// TransactionWriter defines the balance-mutating operations. Each method is
// one atomic unit: it opens a database transaction, locks the affected
// account rows, applies the balance deltas, appends the journal entry and
// the transaction record, and commits, or rolls everything back.
type TransactionWriter interface {
	// SaveProcessed persists a validated transaction as CLEARED together
	// with its journal entry and balance deltas. Returns the stored
	// transaction with generated ids attached.
	SaveProcessed(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.Transaction, error)

	// SaveUnvalidated persists a legacy transaction with a bare signed
	// balance delta and no journal entry. Lower-guarantee path.
	SaveUnvalidated(ctx context.Context, txn domain.Transaction, deltas map[int64]decimal.Decimal) (int64, error)

	// VoidTransaction flips a cleared transaction to VOID, applies the
	// inverse balance deltas and appends the reversing journal entry.
	// Returns the stored reversing entry.
	VoidTransaction(ctx context.Context, transactionID int64, reversingEntry domain.JournalEntry, deltas map[int64]decimal.Decimal, now time.Time) (*domain.JournalEntry, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
