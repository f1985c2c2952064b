package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
	"github.com/mizan-erp/mizan_backend/internal/platform/metrics"
	"github.com/mizan-erp/mizan_backend/internal/utils/accounting"
)

const maxTransactionPageSize = 100

// transactionServiceImpl implements the TransactionSvcFacade interface
type transactionServiceImpl struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
	clock       ports.Clock
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader, clock ports.Clock) portssvc.TransactionSvcFacade {
	return &transactionServiceImpl{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		clock:       clock,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)

// fetchActiveAccount loads an account and rejects missing or inactive ones
// with ErrAccountNotFound.
func (s *transactionServiceImpl) fetchActiveAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account %d is inactive: %w", accountID, apperrors.ErrAccountNotFound)
	}
	return account, nil
}

// checkSufficientBalance rejects a withdrawal that would overdraw the account.
func checkSufficientBalance(account *domain.Account, amount decimal.Decimal) error {
	if account.Balance.LessThan(amount) {
		return apperrors.NewInsufficientBalanceError(account.AccountID, amount, account.Balance)
	}
	return nil
}

func (s *transactionServiceImpl) ProcessTransaction(ctx context.Context, req dto.ProcessTransactionRequest) (*domain.Transaction, error) {
	// Validation is strictly fail fast: nothing below mutates state until
	// every check has passed.
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("transaction amount must be positive, got %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
	}

	txnDate, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	deltas := make(map[int64]decimal.Decimal)
	var entry domain.JournalEntry

	switch req.TransactionType {
	case domain.Income:
		if req.SourceAccountID == nil {
			return nil, fmt.Errorf("income requires a receiving account: %w", apperrors.ErrValidation)
		}
		account, err := s.fetchActiveAccount(ctx, *req.SourceAccountID)
		if err != nil {
			return nil, err
		}
		deltas[account.AccountID] = req.Amount
		// Single-account movements are journalled as self-referencing
		// entries, same account on both legs.
		entry = domain.JournalEntry{
			DebitAccountID:  account.AccountID,
			CreditAccountID: account.AccountID,
		}

	case domain.Expense:
		if req.SourceAccountID == nil {
			return nil, fmt.Errorf("expense requires a source account: %w", apperrors.ErrValidation)
		}
		account, err := s.fetchActiveAccount(ctx, *req.SourceAccountID)
		if err != nil {
			return nil, err
		}
		if err := checkSufficientBalance(account, req.Amount); err != nil {
			return nil, err
		}
		deltas[account.AccountID] = req.Amount.Neg()
		entry = domain.JournalEntry{
			DebitAccountID:  account.AccountID,
			CreditAccountID: account.AccountID,
		}

	case domain.Transfer:
		if req.SourceAccountID == nil {
			return nil, fmt.Errorf("transfer requires a source account: %w", apperrors.ErrValidation)
		}
		source, err := s.fetchActiveAccount(ctx, *req.SourceAccountID)
		if err != nil {
			return nil, err
		}
		if err := checkSufficientBalance(source, req.Amount); err != nil {
			return nil, err
		}
		if req.DestinationAccountID == nil {
			return nil, fmt.Errorf("transfer requires a destination account: %w", apperrors.ErrValidation)
		}
		if *req.DestinationAccountID == source.AccountID {
			return nil, fmt.Errorf("transfer source and destination must differ: %w", apperrors.ErrValidation)
		}
		destination, err := s.fetchActiveAccount(ctx, *req.DestinationAccountID)
		if err != nil {
			return nil, err
		}
		deltas[source.AccountID] = req.Amount.Neg()
		deltas[destination.AccountID] = req.Amount
		entry = domain.JournalEntry{
			DebitAccountID:  destination.AccountID,
			CreditAccountID: source.AccountID,
		}

	default:
		return nil, fmt.Errorf("unknown transaction type %q: %w", req.TransactionType, apperrors.ErrValidation)
	}

	now := s.clock.Now()
	txn := domain.Transaction{
		TransactionType:      req.TransactionType,
		Amount:               req.Amount,
		Category:             req.Category,
		Description:          req.Description,
		Date:                 txnDate,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		ProjectID:            req.ProjectID,
		WorkerID:             req.WorkerID,
		State:                domain.Cleared,
		ReferenceNo:          uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	entry.EntryDate = txnDate
	entry.Description = req.Description
	entry.Amount = req.Amount
	entry.ReferenceType = domain.RefTransaction
	entry.AuditFields = domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}

	saved, err := s.txnRepo.SaveProcessed(ctx, txn, entry, deltas)
	if err != nil {
		s.LogError(ctx, err, "Failed to apply transaction",
			slog.String("type", string(req.TransactionType)),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	metrics.TransactionsProcessed.WithLabelValues(string(saved.TransactionType)).Inc()
	s.LogInfo(ctx, "Transaction processed",
		slog.Int64("transaction_id", saved.TransactionID),
		slog.String("type", string(saved.TransactionType)),
		slog.String("amount", saved.Amount.String()))
	return saved, nil
}

func (s *transactionServiceImpl) InsertTransaction(ctx context.Context, req dto.InsertTransactionRequest) (int64, error) {
	if !req.Amount.IsPositive() {
		return 0, fmt.Errorf("transaction amount must be positive, got %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
	}
	if req.TransactionType == domain.Transfer {
		return 0, fmt.Errorf("transfers are not accepted on the legacy path: %w", apperrors.ErrValidation)
	}

	txnDate, err := dto.ParseDate(req.Date)
	if err != nil {
		return 0, err
	}

	delta := req.Amount
	if req.TransactionType == domain.Expense {
		delta = delta.Neg()
	}

	now := s.clock.Now()
	accountID := req.AccountID
	txn := domain.Transaction{
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Category:        req.Category,
		Description:     req.Description,
		Date:            txnDate,
		LegacyAccountID: &accountID,
		ProjectID:       req.ProjectID,
		WorkerID:        req.WorkerID,
		State:           domain.Pending,
		ReferenceNo:     uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// No balance or activity checks and no journal entry. This path exists
	// for legacy ingestion only and stays PENDING until reconciled.
	transactionID, err := s.txnRepo.SaveUnvalidated(ctx, txn, map[int64]decimal.Decimal{accountID: delta})
	if err != nil {
		s.LogError(ctx, err, "Failed to insert legacy transaction", slog.Int64("account_id", accountID))
		return 0, err
	}

	s.LogInfo(ctx, "Legacy transaction inserted",
		slog.Int64("transaction_id", transactionID),
		slog.Int64("account_id", accountID))
	return transactionID, nil
}

func (s *transactionServiceImpl) ReverseTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.State == domain.Void {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrTransactionAlreadyVoid)
	}
	if txn.JournalEntryID == nil {
		return nil, fmt.Errorf("transaction %d has no journal entry and cannot be reversed: %w", transactionID, apperrors.ErrValidation)
	}

	original, err := s.journalRepo.FindEntryByID(ctx, *txn.JournalEntryID)
	if err != nil {
		return nil, err
	}

	// Undo deltas are the negated effect on every involved account.
	deltas := make(map[int64]decimal.Decimal)
	if src, ok := txn.EffectiveSourceAccountID(); ok {
		deltas[src] = accounting.TransactionEffect(txn, src).Neg()
	}
	if txn.DestinationAccountID != nil {
		deltas[*txn.DestinationAccountID] = accounting.TransactionEffect(txn, *txn.DestinationAccountID).Neg()
	}

	now := s.clock.Now()
	reversing := original.Reversed(now)

	entry, err := s.txnRepo.VoidTransaction(ctx, transactionID, reversing, deltas, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	txn.State = domain.Void
	txn.LastUpdatedAt = now

	metrics.TransactionsReversed.Inc()
	s.LogInfo(ctx, "Transaction reversed",
		slog.Int64("transaction_id", transactionID),
		slog.Int64("reversing_entry_id", entry.EntryID))
	return txn, nil
}

func (s *transactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

func (s *transactionServiceImpl) ListTransactionsByAccount(ctx context.Context, accountID int64, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
