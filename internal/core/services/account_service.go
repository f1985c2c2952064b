package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	clock       ports.Clock
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, clock ports.Clock) portssvc.AccountSvcFacade {
	return &accountServiceImpl{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		clock:       clock,
	}
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := s.clock.Now()

	category := domain.DefaultCategory(req.AccountType)
	if req.Category != nil {
		category = *req.Category
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	account := domain.Account{
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Category:      category,
		Balance:       opening,
		IsActive:      true,
		BankName:      req.BankName,
		BankAccountNo: req.BankAccountNo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	var accountID int64
	var err error
	if opening.IsZero() {
		accountID, err = s.accountRepo.SaveAccount(ctx, account)
	} else {
		// Opening balances get a self-referencing marker entry so the journal
		// explains where the starting money came from. Account and entry are
		// one atomic unit; the repository fills the entry's account ids.
		entry := domain.JournalEntry{
			EntryDate:     now,
			Description:   fmt.Sprintf("Opening balance for %s", account.Name),
			Amount:        opening.Abs(),
			ReferenceType: domain.RefOpeningBalance,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		accountID, err = s.accountRepo.SaveAccountWithOpeningEntry(ctx, account, entry)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, err
	}
	account.AccountID = accountID

	s.LogInfo(ctx, "Account created successfully",
		slog.Int64("account_id", accountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, filter)
}

func (s *accountServiceImpl) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Balance is never writable here. Only the processor's atomic units
	// move money.
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
	}
	if req.BankAccountNo != nil {
		account.BankAccountNo = *req.BankAccountNo
	}
	account.LastUpdatedAt = s.clock.Now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) DeactivateAccount(ctx context.Context, accountID int64) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.IsSystem {
		return fmt.Errorf("system account %s cannot be deactivated: %w", account.Code, apperrors.ErrAccountHasDependents)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("account holds balance %s: %w", account.Balance.String(), apperrors.ErrAccountHasDependents)
	}

	pending, err := s.txnRepo.CountPendingByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count pending transactions", slog.Int64("account_id", accountID))
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d pending transactions reference the account: %w", pending, apperrors.ErrAccountHasDependents)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, s.clock.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.Int64("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.Int64("account_id", accountID))
	return nil
}

func (s *accountServiceImpl) RecomputeAccountBalance(ctx context.Context, accountID int64) (*domain.BalanceRecomputeResult, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	derived, err := s.txnRepo.DeriveBalanceFromLog(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to derive balance from transaction log",
			slog.Int64("account_id", accountID))
		return nil, err
	}

	result := &domain.BalanceRecomputeResult{
		AccountID:      accountID,
		CachedBalance:  account.Balance,
		DerivedBalance: derived,
		Drift:          account.Balance.Sub(derived),
	}
	if !result.Drift.IsZero() {
		s.LogError(ctx, apperrors.ErrInternal, "Cached balance drifts from transaction log",
			slog.Int64("account_id", accountID),
			slog.String("cached", result.CachedBalance.String()),
			slog.String("derived", result.DerivedBalance.String()))
	}
	return result, nil
}

func (s *accountServiceImpl) SummarizeBalances(ctx context.Context) (*domain.AccountSummary, error) {
	return s.accountRepo.SummarizeBalances(ctx)
}
