package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
)

const journalColumns = `entry_id, entry_date, description, debit_account_id, credit_account_id, amount, reference_type, reference_id, is_reversing, reversed_entry_id, created_at, last_updated_at`

const insertEntryQuery = `
	INSERT INTO journal_entries (entry_date, description, debit_account_id, credit_account_id, amount, reference_type, reference_id, is_reversing, reversed_entry_id, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING entry_id;
`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournalEntry(row rowScanner) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.EntryDate,
		&entry.Description,
		&entry.DebitAccountID,
		&entry.CreditAccountID,
		&entry.Amount,
		&entry.ReferenceType,
		&entry.ReferenceID,
		&entry.IsReversing,
		&entry.ReversedEntryID,
		&entry.CreatedAt,
		&entry.LastUpdatedAt,
	)
	return entry, err
}

func entryInsertArgs(entry domain.JournalEntry) []any {
	return []any{
		entry.EntryDate,
		entry.Description,
		entry.DebitAccountID,
		entry.CreditAccountID,
		entry.Amount,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.IsReversing,
		entry.ReversedEntryID,
		entry.CreatedAt,
		entry.LastUpdatedAt,
	}
}

// SaveEntry appends a journal entry and returns its generated id.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (int64, error) {
	var entryID int64
	if err := r.Pool.QueryRow(ctx, insertEntryQuery, entryInsertArgs(entry)...).Scan(&entryID); err != nil {
		return 0, fmt.Errorf("failed to save journal entry: %w", err)
	}
	return entryID, nil
}

// SaveEntryInTx appends a journal entry within an already-open atomic unit.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (int64, error) {
	var entryID int64
	if err := tx.QueryRow(ctx, insertEntryQuery, entryInsertArgs(entry)...).Scan(&entryID); err != nil {
		return 0, fmt.Errorf("failed to save journal entry in tx: %w", err)
	}
	return entryID, nil
}

// FindEntryByID retrieves a journal entry by id.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal entry %d: %w", entryID, apperrors.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", entryID, err)
	}
	return &entry, nil
}

// ListEntriesByAccount retrieves entries debiting or crediting an account,
// newest first.
func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, accountID int64, limit int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE debit_account_id = $1 OR credit_account_id = $1
		ORDER BY entry_date DESC, entry_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}
