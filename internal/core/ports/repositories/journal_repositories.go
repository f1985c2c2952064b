package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry by id.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntriesByAccount retrieves entries debiting or crediting an
	// account, newest first.
	ListEntriesByAccount(ctx context.Context, accountID int64, limit int) ([]domain.JournalEntry, error)
}

// JournalWriter appends journal entries. The journal is append-only: there
// is no update or delete operation, by design.
type JournalWriter interface {
	// SaveEntry appends an entry and returns its generated id.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (int64, error)

	// SaveEntryInTx appends an entry within an already-open atomic unit.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
