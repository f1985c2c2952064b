package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

// AccountSvcFacade exposes the account store: durable monetary containers
// with a cached running balance.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount refuses with ErrAccountHasDependents when the account
	// is a system account, holds a non-zero balance, or has pending
	// transactions referencing it.
	DeactivateAccount(ctx context.Context, accountID int64) error

	// RecomputeAccountBalance folds the non-void transaction log and reports
	// it against the cached balance, for drift detection.
	RecomputeAccountBalance(ctx context.Context, accountID int64) (*domain.BalanceRecomputeResult, error)

	SummarizeBalances(ctx context.Context) (*domain.AccountSummary, error)
}

// JournalSvcFacade exposes the append-only journal engine.
type JournalSvcFacade interface {
	// RecordEntry appends an entry. No account validation happens here;
	// callers must have validated already.
	RecordEntry(ctx context.Context, req dto.RecordEntryRequest) (*domain.JournalEntry, error)

	// ReverseEntry appends the inverse of an existing entry (debit/credit
	// swapped, isReversing set). Fails with ErrEntryNotFound.
	ReverseEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)
	ListEntriesByAccount(ctx context.Context, accountID int64, limit int) ([]domain.JournalEntry, error)
}

// TransactionSvcFacade exposes the transaction processor.
type TransactionSvcFacade interface {
	// ProcessTransaction validates the request (fail fast, no mutation on
	// rejection) and applies it as one atomic unit.
	ProcessTransaction(ctx context.Context, req dto.ProcessTransactionRequest) (*domain.Transaction, error)

	// InsertTransaction is the legacy unvalidated path: signed balance delta,
	// no journal entry. Documented lower-guarantee fallback, not an
	// equivalent of ProcessTransaction.
	InsertTransaction(ctx context.Context, req dto.InsertTransactionRequest) (int64, error)

	// ReverseTransaction voids a cleared transaction, restoring balances and
	// appending a reversing journal entry, atomically.
	ReverseTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	GetTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID int64, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// PayrollSvcFacade exposes the payroll engine.
type PayrollSvcFacade interface {
	// CalculatePayroll derives the wage breakdown for a worker and period
	// without persisting anything.
	CalculatePayroll(ctx context.Context, workerID int64, from, to time.Time) (*domain.PayrollCalculation, error)

	// GeneratePayroll persists a DRAFT payroll entry and accrues the gross
	// wage on the wages payable account, atomically.
	GeneratePayroll(ctx context.Context, req dto.GeneratePayrollRequest) (*domain.PayrollEntry, error)

	// ProcessWagePayment settles a DRAFT payroll entry exactly once.
	ProcessWagePayment(ctx context.Context, req dto.WagePaymentRequest) (*domain.PayrollEntry, error)

	// ProcessAdvance hands cash to a worker and debits advances receivable.
	ProcessAdvance(ctx context.Context, req dto.AdvanceRequest) (*domain.WorkerAdvance, error)

	GetPayrollByID(ctx context.Context, payrollID int64) (*domain.PayrollEntry, error)
	ListPayrollsByWorker(ctx context.Context, workerID int64) ([]domain.PayrollEntry, error)
	ListAdvancesByWorker(ctx context.Context, workerID int64, unsettledOnly bool) ([]domain.WorkerAdvance, error)
}

// StatementSvcFacade exposes the read-only statement engine. It never
// mutates balances and never reads a persisted running-balance field.
type StatementSvcFacade interface {
	// CalculateOpeningBalance rewinds the cached balance to the start of
	// asOf by subtracting the effect of every later non-void transaction.
	CalculateOpeningBalance(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error)

	// GenerateStatementData replays the transaction log for [from, to] into
	// per-row running balances, totals and optional analytics.
	GenerateStatementData(ctx context.Context, accountID int64, from, to time.Time, includeAnalytics bool) (*domain.StatementData, error)
}

// WorkerSvcFacade exposes the worker/attendance collaborator store that the
// payroll engine reads from.
type WorkerSvcFacade interface {
	CreateWorker(ctx context.Context, req dto.CreateWorkerRequest) (*domain.Worker, error)
	GetWorkerByID(ctx context.Context, workerID int64) (*domain.Worker, error)
	ListWorkers(ctx context.Context, onlyActive bool) ([]domain.Worker, error)
	UpdateWorker(ctx context.Context, workerID int64, req dto.UpdateWorkerRequest) (*domain.Worker, error)
	RecordAttendance(ctx context.Context, workerID int64, req dto.AttendanceRequest) (int64, error)
	ListAttendance(ctx context.Context, workerID int64, from, to time.Time) ([]domain.Attendance, error)
}

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Journal     JournalSvcFacade
	Transaction TransactionSvcFacade
	Payroll     PayrollSvcFacade
	Statement   StatementSvcFacade
	Worker      WorkerSvcFacade
}
