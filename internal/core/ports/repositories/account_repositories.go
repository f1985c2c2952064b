package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code, e.g. "WAGES_PAYABLE".
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the filter.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// SummarizeBalances aggregates cached balances by type and category.
	SummarizeBalances(ctx context.Context) (*domain.AccountSummary, error)
}

// AccountWriter defines write operations for account data. None of these
// touch the balance column; balances move only inside the transaction
// processor's atomic unit.
type AccountWriter interface {
	// SaveAccount persists a new account and returns its generated id.
	SaveAccount(ctx context.Context, account domain.Account) (int64, error)

	// SaveAccountWithOpeningEntry persists a new account together with its
	// self-referencing OPENING_BALANCE journal entry in one atomic unit.
	// The entry's account ids and reference id are filled in from the
	// generated account id.
	SaveAccountWithOpeningEntry(ctx context.Context, account domain.Account, entry domain.JournalEntry) (int64, error)

	// UpdateAccount updates an existing account's details (never its balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64, now time.Time) error
}

// AccountTransactionSupport defines the operations the transaction processor
// uses inside its atomic unit. The pgx.Tx argument makes the unit-of-work
// boundary explicit in the signature.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows for
	// update within the given transaction, in ascending id order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]domain.Account, error)

	// ApplyBalanceDeltasInTx adds each delta to its account's cached balance
	// within the given transaction.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[int64]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
