package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// PayrollReader defines read operations for payroll entries and the
// deduction records that feed wage calculation.
type PayrollReader interface {
	// FindPayrollByID retrieves a payroll entry by id.
	FindPayrollByID(ctx context.Context, payrollID int64) (*domain.PayrollEntry, error)

	// ListPayrollsByWorker retrieves a worker's payroll entries, newest first.
	ListPayrollsByWorker(ctx context.Context, workerID int64) ([]domain.PayrollEntry, error)

	// SumDeductions totals a worker's deductions dated within [from, to].
	SumDeductions(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error)
}

// PayrollWriter defines the payroll engine's atomic units.
type PayrollWriter interface {
	// SavePayrollRun persists a DRAFT payroll entry together with its
	// liability journal entry and balance deltas, atomically.
	SavePayrollRun(ctx context.Context, entry domain.PayrollEntry, liability domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.PayrollEntry, error)

	// SettleWagePayment atomically: persists the payment transaction and its
	// journal entry, applies the balance deltas, marks the listed advances
	// settled and flips the payroll entry to PAID with the settlement
	// transaction id attached.
	SettleWagePayment(ctx context.Context, payrollID int64, payment domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal, advanceIDs []int64, now time.Time) (*domain.Transaction, error)
}

// AdvanceReader defines read operations for worker advances.
type AdvanceReader interface {
	// FindAdvanceByID retrieves an advance by id.
	FindAdvanceByID(ctx context.Context, advanceID int64) (*domain.WorkerAdvance, error)

	// ListAdvancesByWorker retrieves a worker's advances, newest first.
	ListAdvancesByWorker(ctx context.Context, workerID int64, unsettledOnly bool) ([]domain.WorkerAdvance, error)

	// SumUnsettledAdvances totals a worker's unsettled advances dated within [from, to].
	SumUnsettledAdvances(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error)
}

// AdvanceWriter persists new advances.
type AdvanceWriter interface {
	// SaveAdvance atomically persists the advance row, its cash-out
	// transaction and journal entry, and applies the balance deltas.
	SaveAdvance(ctx context.Context, advance domain.WorkerAdvance, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.WorkerAdvance, error)
}

// PayrollRepositoryFacade combines all payroll repository interfaces.
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
	AdvanceReader
	AdvanceWriter
}
