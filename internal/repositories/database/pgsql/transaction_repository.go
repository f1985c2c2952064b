package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	"github.com/mizan-erp/mizan_backend/internal/utils/accounting"
	"github.com/mizan-erp/mizan_backend/internal/utils/pagination"
)

const transactionColumns = `transaction_id, transaction_type, amount, category, description, date, source_account_id, destination_account_id, legacy_account_id, project_id, worker_id, state, journal_entry_id, reference_no, is_reconciled, created_at, last_updated_at`

// involvesAccount matches any of the three account columns against $1.
const involvesAccount = `(source_account_id = $1 OR destination_account_id = $1 OR legacy_account_id = $1)`

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_type, amount, category, description, date, source_account_id, destination_account_id, legacy_account_id, project_id, worker_id, state, journal_entry_id, reference_no, is_reconciled, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING transaction_id;
`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
	journalRepo portsrepo.JournalWriter
}

// newPgxTransactionRepository creates a new repository for transactions. The
// account and journal repositories are injected so the atomic units can lock
// balances and append entries inside one database transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport, journalRepo portsrepo.JournalWriter) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.TransactionType,
		&txn.Amount,
		&txn.Category,
		&txn.Description,
		&txn.Date,
		&txn.SourceAccountID,
		&txn.DestinationAccountID,
		&txn.LegacyAccountID,
		&txn.ProjectID,
		&txn.WorkerID,
		&txn.State,
		&txn.JournalEntryID,
		&txn.ReferenceNo,
		&txn.IsReconciled,
		&txn.CreatedAt,
		&txn.LastUpdatedAt,
	)
	return txn, err
}

func transactionInsertArgs(txn domain.Transaction) []any {
	return []any{
		txn.TransactionType,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Date,
		txn.SourceAccountID,
		txn.DestinationAccountID,
		txn.LegacyAccountID,
		txn.ProjectID,
		txn.WorkerID,
		txn.State,
		txn.JournalEntryID,
		txn.ReferenceNo,
		txn.IsReconciled,
		txn.CreatedAt,
		txn.LastUpdatedAt,
	}
}

// FindTransactionByID retrieves a transaction by id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// ListTransactionsByAccount retrieves a page of transactions touching an
// account, newest first, with keyset pagination on (date, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID int64, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + involvesAccount
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (date, transaction_id) < ($2, $3)`
		args = append(args, cursorDate, cursorID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY date DESC, transaction_id DESC LIMIT %d;`, limit+1)

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		encoded := pagination.EncodeCursor(last.Date, last.TransactionID)
		token = &encoded
	}
	return txns, token, nil
}

// ListTransactionsForStatement retrieves all non-void transactions touching
// an account within [from, to], ascending by date then id.
func (r *PgxTransactionRepository) ListTransactionsForStatement(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + involvesAccount + `
		  AND state != 'VOID'
		  AND date >= $2 AND date <= $3
		ORDER BY date, transaction_id;
	`
	return r.queryTransactions(ctx, query, accountID, from, to)
}

// ListTransactionsOnOrAfter retrieves all non-void transactions touching an
// account dated on or after asOf.
func (r *PgxTransactionRepository) ListTransactionsOnOrAfter(ctx context.Context, accountID int64, asOf time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + involvesAccount + `
		  AND state != 'VOID'
		  AND date >= $2
		ORDER BY date, transaction_id;
	`
	return r.queryTransactions(ctx, query, accountID, asOf)
}

// CountPendingByAccount counts PENDING transactions referencing an account.
func (r *PgxTransactionRepository) CountPendingByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE ` + involvesAccount + ` AND state = 'PENDING';`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending transactions for account %d: %w", accountID, err)
	}
	return count, nil
}

// DeriveBalanceFromLog folds the account's full history into a balance:
// OPENING_BALANCE journal entries seed it, then every non-void transaction's
// effect is added. The fold reuses the same effect function the statement
// engine uses, so drift checks and statements cannot disagree.
func (r *PgxTransactionRepository) DeriveBalanceFromLog(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	// Opening balances live only in the journal; reversing entries subtract.
	openingQuery := `
		SELECT COALESCE(SUM(CASE WHEN is_reversing THEN -amount ELSE amount END), 0)
		FROM journal_entries
		WHERE reference_type = 'OPENING_BALANCE' AND debit_account_id = $1;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, openingQuery, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to fold opening balance entries for account %d: %w", accountID, err)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + involvesAccount + `
		  AND state != 'VOID'
		ORDER BY date, transaction_id;
	`
	txns, err := r.queryTransactions(ctx, query, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	for i := range txns {
		balance = balance.Add(accounting.TransactionEffect(&txns[i], accountID))
	}
	return balance, nil
}

// lockAndRecheckBalances locks the rows for every account in deltas and
// re-verifies, under lock, that no withdrawal overdraws its account.
// Validation before the atomic unit raced against concurrent units; this
// check is authoritative.
func lockAndRecheckBalances(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountTransactionSupport, deltas map[int64]decimal.Decimal) (map[int64]domain.Account, error) {
	accountIDs := make([]int64, 0, len(deltas))
	for accountID := range deltas {
		accountIDs = append(accountIDs, accountID)
	}

	locked, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	for accountID, delta := range deltas {
		if delta.IsNegative() {
			account := locked[accountID]
			if account.Balance.Add(delta).IsNegative() {
				return nil, apperrors.NewInsufficientBalanceError(accountID, delta.Neg(), account.Balance)
			}
		}
	}
	return locked, nil
}

// SaveProcessed persists a validated transaction as one atomic unit: lock the
// affected accounts, apply the balance deltas, append the journal entry, then
// the transaction row pointing at it.
func (r *PgxTransactionRepository) SaveProcessed(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if _, err := lockAndRecheckBalances(ctx, tx, r.accountRepo, deltas); err != nil {
		return nil, err
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, txn.LastUpdatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply balance deltas", err)
	}

	entryID, err := r.journalRepo.SaveEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to append journal entry", err)
	}
	txn.JournalEntryID = &entryID

	if err := tx.QueryRow(ctx, insertTransactionQuery, transactionInsertArgs(txn)...).Scan(&txn.TransactionID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert transaction", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// SaveUnvalidated persists a legacy transaction: the signed delta is applied
// and the row stored with no journal entry. The account must still exist.
func (r *PgxTransactionRepository) SaveUnvalidated(ctx context.Context, txn domain.Transaction, deltas map[int64]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	accountIDs := make([]int64, 0, len(deltas))
	for accountID := range deltas {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return 0, err
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, txn.LastUpdatedAt); err != nil {
		return 0, apperrors.NewAppError(500, "failed to apply balance deltas", err)
	}

	var transactionID int64
	if err := tx.QueryRow(ctx, insertTransactionQuery, transactionInsertArgs(txn)...).Scan(&transactionID); err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert legacy transaction", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return transactionID, nil
}

// VoidTransaction flips a cleared transaction to VOID, applies the inverse
// balance deltas and appends the reversing journal entry, atomically.
func (r *PgxTransactionRepository) VoidTransaction(ctx context.Context, transactionID int64, reversingEntry domain.JournalEntry, deltas map[int64]decimal.Decimal, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	accountIDs := make([]int64, 0, len(deltas))
	for accountID := range deltas {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return nil, err
	}

	// Guard against a concurrent reversal of the same transaction: the state
	// predicate makes the flip idempotent at the storage level.
	ct, err := tx.Exec(ctx, `
		UPDATE transactions
		SET state = 'VOID', last_updated_at = $2
		WHERE transaction_id = $1 AND state != 'VOID';
	`, transactionID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to void transaction", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrTransactionAlreadyVoid)
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply reversal deltas", err)
	}

	entryID, err := r.journalRepo.SaveEntryInTx(ctx, tx, reversingEntry)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to append reversing entry", err)
	}
	reversingEntry.EntryID = entryID

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reversingEntry, nil
}
