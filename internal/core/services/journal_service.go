package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

const defaultEntryListLimit = 50

// journalServiceImpl implements the JournalSvcFacade interface
type journalServiceImpl struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	clock       ports.Clock
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, clock ports.Clock) portssvc.JournalSvcFacade {
	return &journalServiceImpl{
		journalRepo: journalRepo,
		clock:       clock,
	}
}

var _ portssvc.JournalSvcFacade = (*journalServiceImpl)(nil)

func (s *journalServiceImpl) RecordEntry(ctx context.Context, req dto.RecordEntryRequest) (*domain.JournalEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("journal amount must be positive, got %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
	}

	entryDate, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entry := domain.JournalEntry{
		EntryDate:       entryDate,
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	entryID, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal entry")
		return nil, err
	}
	entry.EntryID = entryID

	s.LogInfo(ctx, "Journal entry recorded",
		slog.Int64("entry_id", entryID),
		slog.String("reference_type", string(entry.ReferenceType)))
	return &entry, nil
}

func (s *journalServiceImpl) ReverseEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	reversing := original.Reversed(s.clock.Now())
	reversingID, err := s.journalRepo.SaveEntry(ctx, reversing)
	if err != nil {
		s.LogError(ctx, err, "Failed to save reversing entry", slog.Int64("entry_id", entryID))
		return nil, err
	}
	reversing.EntryID = reversingID

	s.LogInfo(ctx, "Journal entry reversed",
		slog.Int64("entry_id", entryID),
		slog.Int64("reversing_entry_id", reversingID))
	return &reversing, nil
}

func (s *journalServiceImpl) GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

func (s *journalServiceImpl) ListEntriesByAccount(ctx context.Context, accountID int64, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultEntryListLimit
	}
	return s.journalRepo.ListEntriesByAccount(ctx, accountID, limit)
}
