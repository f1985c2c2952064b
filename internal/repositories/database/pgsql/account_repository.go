package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
)

const accountColumns = `account_id, code, name, account_type, category, balance, is_active, is_system, bank_name, bank_account_no, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.Category,
		&acc.Balance,
		&acc.IsActive,
		&acc.IsSystem,
		&acc.BankName,
		&acc.BankAccountNo,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	return acc, err
}

const insertAccountQuery = `
	INSERT INTO accounts (code, name, account_type, category, balance, is_active, is_system, bank_name, bank_account_no, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING account_id;
`

// accountQuerier is satisfied by both the pool and an open pgx.Tx.
type accountQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAccount(ctx context.Context, q accountQuerier, account domain.Account) (int64, error) {
	var accountID int64
	err := q.QueryRow(ctx, insertAccountQuery,
		account.Code,
		account.Name,
		account.AccountType,
		account.Category,
		account.Balance,
		account.IsActive,
		account.IsSystem,
		account.BankName,
		account.BankAccountNo,
		account.CreatedAt,
		account.LastUpdatedAt,
	).Scan(&accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return 0, fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return 0, fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return accountID, nil
}

// SaveAccount inserts a new account and returns its generated id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	return insertAccount(ctx, r.Pool, account)
}

// SaveAccountWithOpeningEntry inserts a new account and its self-referencing
// OPENING_BALANCE journal entry in one atomic unit, so a funded account can
// never exist without the entry that explains its starting money.
func (r *PgxAccountRepository) SaveAccountWithOpeningEntry(ctx context.Context, account domain.Account, entry domain.JournalEntry) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	accountID, err := insertAccount(ctx, tx, account)
	if err != nil {
		return 0, err
	}

	entry.DebitAccountID = accountID
	entry.CreditAccountID = accountID
	entry.ReferenceID = &accountID
	var entryID int64
	if err := tx.QueryRow(ctx, insertEntryQuery, entryInsertArgs(entry)...).Scan(&entryID); err != nil {
		return 0, apperrors.NewAppError(500, "failed to append opening balance entry", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return accountID, nil
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", accountID, apperrors.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to find account by id %d: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// ListAccounts retrieves accounts matching the filter.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`

	var conditions []string
	var args []any
	if filter.OnlyActive {
		conditions = append(conditions, `is_active = TRUE`)
	}
	if filter.AccountType != nil {
		args = append(args, *filter.AccountType)
		conditions = append(conditions, fmt.Sprintf(`account_type = $%d`, len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf(`category = $%d`, len(args)))
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY account_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SummarizeBalances aggregates cached balances by type and category over
// active accounts.
func (r *PgxAccountRepository) SummarizeBalances(ctx context.Context) (*domain.AccountSummary, error) {
	query := `
		SELECT account_type, category, COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE is_active = TRUE
		GROUP BY account_type, category;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize balances: %w", err)
	}
	defer rows.Close()

	summary := &domain.AccountSummary{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		ByType:           make(map[domain.AccountType]decimal.Decimal),
	}
	for rows.Next() {
		var accountType domain.AccountType
		var category domain.AccountCategory
		var total decimal.Decimal
		if err := rows.Scan(&accountType, &category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan balance summary row: %w", err)
		}
		summary.ByType[accountType] = summary.ByType[accountType].Add(total)
		if category == domain.CategoryLiability {
			summary.TotalLiabilities = summary.TotalLiabilities.Add(total)
		} else {
			summary.TotalAssets = summary.TotalAssets.Add(total)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance summary rows: %w", err)
	}
	return summary, nil
}

// UpdateAccount updates an account's details. The balance column is
// deliberately absent from the statement.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, bank_name = $3, bank_account_no = $4, last_updated_at = $5
		WHERE account_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.BankName,
		account.BankAccountNo,
		account.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", account.AccountID, apperrors.ErrAccountNotFound)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2
		WHERE account_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, accountID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %d: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", accountID, apperrors.ErrAccountNotFound)
	}
	return nil
}

// FindAccountsByIDsForUpdate retrieves accounts by id and locks the rows for
// update within the given transaction. Rows are locked in ascending id order
// so concurrent units cannot deadlock on each other.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[int64]domain.Account{}, nil
	}

	sorted := make([]int64, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[int64]domain.Account, len(sorted))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	// Check if all requested accounts were found and locked
	for _, id := range sorted {
		if _, ok := accountsMap[id]; !ok {
			return nil, fmt.Errorf("account %d: %w", id, apperrors.ErrAccountNotFound)
		}
	}
	return accountsMap, nil
}

// ApplyBalanceDeltasInTx adds each delta to its account's cached balance
// within the given transaction. Callers must have locked the rows first.
func (r *PgxAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[int64]decimal.Decimal, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]int64, 0, len(deltas))
	for accountID, delta := range deltas {
		if !delta.IsZero() { // Only queue updates if there's a change
			batch.Queue(query, accountID, delta, now)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %d: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("account %d not found during balance update: %w", accountIDs[i], apperrors.ErrAccountNotFound)
			}
		}
	}
	if closeErr := br.Close(); closeErr != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", closeErr)
	}
	return batchErr
}
