package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/utils/accounting"
)

// statementServiceImpl implements the StatementSvcFacade interface. It is
// strictly read-only: balances are reconstructed from the transaction log,
// never read from a persisted running-balance column.
type statementServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

// NewStatementService creates a new statement service
func NewStatementService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader) portssvc.StatementSvcFacade {
	return &statementServiceImpl{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.StatementSvcFacade = (*statementServiceImpl)(nil)

func (s *statementServiceImpl) CalculateOpeningBalance(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.rewindBalance(ctx, account, asOf)
}

// rewindBalance unwinds everything dated on or after asOf from the account's
// cached balance. VOID rows contribute zero and fall out naturally.
func (s *statementServiceImpl) rewindBalance(ctx context.Context, account *domain.Account, asOf time.Time) (decimal.Decimal, error) {
	later, err := s.txnRepo.ListTransactionsOnOrAfter(ctx, account.AccountID, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	balance := account.Balance
	for i := range later {
		balance = balance.Sub(accounting.TransactionEffect(&later[i], account.AccountID))
	}
	return balance, nil
}

func (s *statementServiceImpl) GenerateStatementData(ctx context.Context, accountID int64, from, to time.Time, includeAnalytics bool) (*domain.StatementData, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening, err := s.rewindBalance(ctx, account, from)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsForStatement(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	data := &domain.StatementData{
		AccountID:      accountID,
		AccountName:    account.Name,
		PeriodStart:    from,
		PeriodEnd:      to,
		OpeningBalance: opening,
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
		Rows:           make([]domain.StatementRow, 0, len(txns)),
	}

	running := opening
	for i := range txns {
		txn := &txns[i]
		effect := accounting.TransactionEffect(txn, accountID)
		if effect.IsZero() {
			// VOID, or the account is not actually involved.
			continue
		}

		running = running.Add(effect)
		row := domain.StatementRow{
			TransactionID:  txn.TransactionID,
			Date:           txn.Date,
			Description:    txn.Description,
			Category:       txn.Category,
			ReferenceNo:    txn.ReferenceNo,
			Debit:          decimal.Zero,
			Credit:         decimal.Zero,
			RunningBalance: running,
		}
		if effect.IsNegative() {
			row.Debit = effect.Abs()
			data.TotalDebits = data.TotalDebits.Add(row.Debit)
		} else {
			row.Credit = effect
			data.TotalCredits = data.TotalCredits.Add(row.Credit)
		}
		data.Rows = append(data.Rows, row)
	}
	data.ClosingBalance = running

	if includeAnalytics {
		data.Analytics = buildAnalytics(data.Rows)
	}
	return data, nil
}

// buildAnalytics derives the optional statement series from the already
// computed rows: one closing balance per calendar day, the single largest
// debit and credit, and the share of period debits per category.
func buildAnalytics(rows []domain.StatementRow) *domain.StatementAnalytics {
	analytics := &domain.StatementAnalytics{
		DailyBalances: make([]domain.DailyBalance, 0),
		ByCategory:    make([]domain.CategoryShare, 0),
	}

	byCategory := make(map[string]decimal.Decimal)
	totalDebits := decimal.Zero

	for i := range rows {
		row := &rows[i]

		day := row.Date.Truncate(24 * time.Hour)
		if n := len(analytics.DailyBalances); n > 0 && analytics.DailyBalances[n-1].Date.Equal(day) {
			analytics.DailyBalances[n-1].Balance = row.RunningBalance
		} else {
			analytics.DailyBalances = append(analytics.DailyBalances, domain.DailyBalance{
				Date:    day,
				Balance: row.RunningBalance,
			})
		}

		if !row.Debit.IsZero() {
			if analytics.LargestDebit == nil || row.Debit.GreaterThan(analytics.LargestDebit.Debit) {
				analytics.LargestDebit = row
			}
			category := row.Category
			if category == "" {
				category = "Uncategorized"
			}
			byCategory[category] = byCategory[category].Add(row.Debit)
			totalDebits = totalDebits.Add(row.Debit)
		}
		if !row.Credit.IsZero() {
			if analytics.LargestCredit == nil || row.Credit.GreaterThan(analytics.LargestCredit.Credit) {
				analytics.LargestCredit = row
			}
		}
	}

	hundred := decimal.NewFromInt(100)
	for category, total := range byCategory {
		share := domain.CategoryShare{Category: category, Total: total, Percent: decimal.Zero}
		if totalDebits.IsPositive() {
			share.Percent = total.Div(totalDebits).Mul(hundred).Round(2)
		}
		analytics.ByCategory = append(analytics.ByCategory, share)
	}
	sort.Slice(analytics.ByCategory, func(i, j int) bool {
		return analytics.ByCategory[i].Total.GreaterThan(analytics.ByCategory[j].Total)
	})

	return analytics
}
