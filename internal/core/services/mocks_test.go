package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccountWithOpeningEntry(ctx context.Context, account domain.Account, entry domain.JournalEntry) (int64, error) {
	args := m.Called(ctx, account, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SummarizeBalances(ctx context.Context) (*domain.AccountSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, now time.Time) error {
	args := m.Called(ctx, accountID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[int64]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, deltas, now)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByAccount(ctx context.Context, accountID int64, limit int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (int64, error) {
	args := m.Called(ctx, tx, entry)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID int64, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsForStatement(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsOnOrAfter(ctx context.Context, accountID int64, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountPendingByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) DeriveBalanceFromLog(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SaveProcessed(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, entry, deltas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveUnvalidated(ctx context.Context, txn domain.Transaction, deltas map[int64]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, txn, deltas)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) VoidTransaction(ctx context.Context, transactionID int64, reversingEntry domain.JournalEntry, deltas map[int64]decimal.Decimal, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID, reversingEntry, deltas, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// MockPayrollRepository is a mock type for the PayrollRepositoryFacade interface
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) FindPayrollByID(ctx context.Context, payrollID int64) (*domain.PayrollEntry, error) {
	args := m.Called(ctx, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollEntry), args.Error(1)
}

func (m *MockPayrollRepository) ListPayrollsByWorker(ctx context.Context, workerID int64) ([]domain.PayrollEntry, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollEntry), args.Error(1)
}

func (m *MockPayrollRepository) SumDeductions(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPayrollRepository) SavePayrollRun(ctx context.Context, entry domain.PayrollEntry, liability domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.PayrollEntry, error) {
	args := m.Called(ctx, entry, liability, deltas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollEntry), args.Error(1)
}

func (m *MockPayrollRepository) SettleWagePayment(ctx context.Context, payrollID int64, payment domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal, advanceIDs []int64, now time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, payrollID, payment, entry, deltas, advanceIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPayrollRepository) FindAdvanceByID(ctx context.Context, advanceID int64) (*domain.WorkerAdvance, error) {
	args := m.Called(ctx, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkerAdvance), args.Error(1)
}

func (m *MockPayrollRepository) ListAdvancesByWorker(ctx context.Context, workerID int64, unsettledOnly bool) ([]domain.WorkerAdvance, error) {
	args := m.Called(ctx, workerID, unsettledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkerAdvance), args.Error(1)
}

func (m *MockPayrollRepository) SumUnsettledAdvances(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPayrollRepository) SaveAdvance(ctx context.Context, advance domain.WorkerAdvance, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.WorkerAdvance, error) {
	args := m.Called(ctx, advance, txn, entry, deltas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkerAdvance), args.Error(1)
}

// MockWorkerRepository is a mock type for the WorkerRepositoryFacade interface
type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) FindWorkerByID(ctx context.Context, workerID int64) (*domain.Worker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) ListWorkers(ctx context.Context, onlyActive bool) ([]domain.Worker, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) ListAttendance(ctx context.Context, workerID int64, from, to time.Time) ([]domain.Attendance, error) {
	args := m.Called(ctx, workerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

func (m *MockWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) (int64, error) {
	args := m.Called(ctx, worker)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) (int64, error) {
	args := m.Called(ctx, attendance)
	return args.Get(0).(int64), args.Error(1)
}
