package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
)

const payrollColumns = `payroll_id, worker_id, period_start, period_end, days_present, half_days, overtime_hours, daily_rate, overtime_rate, gross_wage, deductions, advances_deducted, net_wage, status, project_id, settlement_transaction_id, journal_entry_id, created_at, last_updated_at`

const advanceColumns = `advance_id, worker_id, amount, reason, date, source_account_id, transaction_id, is_settled, settled_at, settled_amount, settlement_transaction_id, created_at, last_updated_at`

type PgxPayrollRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
	journalRepo portsrepo.JournalWriter
}

// newPgxPayrollRepository creates a new repository for payroll entries and
// worker advances. Account and journal repositories are injected for the
// atomic units.
func newPgxPayrollRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport, journalRepo portsrepo.JournalWriter) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
	}
}

// Ensure PgxPayrollRepository implements portsrepo.PayrollRepositoryFacade
var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

func scanPayroll(row rowScanner) (domain.PayrollEntry, error) {
	var p domain.PayrollEntry
	err := row.Scan(
		&p.PayrollID,
		&p.WorkerID,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.DaysPresent,
		&p.HalfDays,
		&p.OvertimeHours,
		&p.DailyRate,
		&p.OvertimeRate,
		&p.GrossWage,
		&p.Deductions,
		&p.AdvancesDeducted,
		&p.NetWage,
		&p.Status,
		&p.ProjectID,
		&p.SettlementTransactionID,
		&p.JournalEntryID,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	return p, err
}

func scanAdvance(row rowScanner) (domain.WorkerAdvance, error) {
	var a domain.WorkerAdvance
	err := row.Scan(
		&a.AdvanceID,
		&a.WorkerID,
		&a.Amount,
		&a.Reason,
		&a.Date,
		&a.SourceAccountID,
		&a.TransactionID,
		&a.IsSettled,
		&a.SettledAt,
		&a.SettledAmount,
		&a.SettlementTransactionID,
		&a.CreatedAt,
		&a.LastUpdatedAt,
	)
	return a, err
}

// FindPayrollByID retrieves a payroll entry by id.
func (r *PgxPayrollRepository) FindPayrollByID(ctx context.Context, payrollID int64) (*domain.PayrollEntry, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_entries WHERE payroll_id = $1;`

	p, err := scanPayroll(r.Pool.QueryRow(ctx, query, payrollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payroll entry %d: %w", payrollID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find payroll entry %d: %w", payrollID, err)
	}
	return &p, nil
}

// ListPayrollsByWorker retrieves a worker's payroll entries, newest first.
func (r *PgxPayrollRepository) ListPayrollsByWorker(ctx context.Context, workerID int64) ([]domain.PayrollEntry, error) {
	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_entries
		WHERE worker_id = $1
		ORDER BY period_end DESC, payroll_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls for worker %d: %w", workerID, err)
	}
	defer rows.Close()

	var entries []domain.PayrollEntry
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll row: %w", err)
		}
		entries = append(entries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll rows: %w", err)
	}
	return entries, nil
}

// SumDeductions totals a worker's deductions dated within [from, to].
func (r *PgxPayrollRepository) SumDeductions(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM worker_deductions
		WHERE worker_id = $1 AND date >= $2 AND date <= $3;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, workerID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum deductions for worker %d: %w", workerID, err)
	}
	return total, nil
}

// FindAdvanceByID retrieves an advance by id.
func (r *PgxPayrollRepository) FindAdvanceByID(ctx context.Context, advanceID int64) (*domain.WorkerAdvance, error) {
	query := `SELECT ` + advanceColumns + ` FROM worker_advances WHERE advance_id = $1;`

	a, err := scanAdvance(r.Pool.QueryRow(ctx, query, advanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("advance %d: %w", advanceID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find advance %d: %w", advanceID, err)
	}
	return &a, nil
}

// ListAdvancesByWorker retrieves a worker's advances, newest first.
func (r *PgxPayrollRepository) ListAdvancesByWorker(ctx context.Context, workerID int64, unsettledOnly bool) ([]domain.WorkerAdvance, error) {
	query := `SELECT ` + advanceColumns + ` FROM worker_advances WHERE worker_id = $1`
	if unsettledOnly {
		query += ` AND is_settled = FALSE`
	}
	query += ` ORDER BY date DESC, advance_id DESC;`

	rows, err := r.Pool.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances for worker %d: %w", workerID, err)
	}
	defer rows.Close()

	var advances []domain.WorkerAdvance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance row: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advance rows: %w", err)
	}
	return advances, nil
}

// SumUnsettledAdvances totals a worker's unsettled advances dated within [from, to].
func (r *PgxPayrollRepository) SumUnsettledAdvances(ctx context.Context, workerID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM worker_advances
		WHERE worker_id = $1 AND is_settled = FALSE AND date >= $2 AND date <= $3;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, workerID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum unsettled advances for worker %d: %w", workerID, err)
	}
	return total, nil
}

// SavePayrollRun persists a DRAFT payroll entry, its liability journal entry
// and the liability balance delta as one atomic unit.
func (r *PgxPayrollRepository) SavePayrollRun(ctx context.Context, entry domain.PayrollEntry, liability domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.PayrollEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if _, err := lockAndRecheckBalances(ctx, tx, r.accountRepo, deltas); err != nil {
		return nil, err
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, entry.LastUpdatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply liability delta", err)
	}

	entryID, err := r.journalRepo.SaveEntryInTx(ctx, tx, liability)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to append liability entry", err)
	}
	entry.JournalEntryID = &entryID

	insertQuery := `
		INSERT INTO payroll_entries (worker_id, period_start, period_end, days_present, half_days, overtime_hours, daily_rate, overtime_rate, gross_wage, deductions, advances_deducted, net_wage, status, project_id, journal_entry_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING payroll_id;
	`
	err = tx.QueryRow(ctx, insertQuery,
		entry.WorkerID,
		entry.PeriodStart,
		entry.PeriodEnd,
		entry.DaysPresent,
		entry.HalfDays,
		entry.OvertimeHours,
		entry.DailyRate,
		entry.OvertimeRate,
		entry.GrossWage,
		entry.Deductions,
		entry.AdvancesDeducted,
		entry.NetWage,
		entry.Status,
		entry.ProjectID,
		entry.JournalEntryID,
		entry.CreatedAt,
		entry.LastUpdatedAt,
	).Scan(&entry.PayrollID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert payroll entry", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SettleWagePayment settles a DRAFT payroll entry as one atomic unit: payment
// transaction, journal entry, balance deltas, advance settlement and the
// DRAFT to PAID flip all commit or roll back together.
func (r *PgxPayrollRepository) SettleWagePayment(ctx context.Context, payrollID int64, payment domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal, advanceIDs []int64, now time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if _, err := lockAndRecheckBalances(ctx, tx, r.accountRepo, deltas); err != nil {
		return nil, err
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply settlement deltas", err)
	}

	entryID, err := r.journalRepo.SaveEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to append settlement entry", err)
	}
	payment.JournalEntryID = &entryID

	if err := tx.QueryRow(ctx, insertTransactionQuery, transactionInsertArgs(payment)...).Scan(&payment.TransactionID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert payment transaction", err)
	}

	if len(advanceIDs) > 0 {
		ct, err := tx.Exec(ctx, `
			UPDATE worker_advances
			SET is_settled = TRUE, settled_at = $2, settled_amount = amount, settlement_transaction_id = $3, last_updated_at = $2
			WHERE advance_id = ANY($1) AND is_settled = FALSE;
		`, advanceIDs, now, payment.TransactionID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to settle advances", err)
		}
		if ct.RowsAffected() != int64(len(advanceIDs)) {
			// A listed advance vanished or was settled concurrently.
			return nil, fmt.Errorf("expected to settle %d advances, settled %d: %w", len(advanceIDs), ct.RowsAffected(), apperrors.ErrValidation)
		}
	}

	// The state predicate protects against a concurrent settlement.
	ct, err := tx.Exec(ctx, `
		UPDATE payroll_entries
		SET status = 'PAID', settlement_transaction_id = $2, last_updated_at = $3
		WHERE payroll_id = $1 AND status = 'DRAFT';
	`, payrollID, payment.TransactionID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark payroll paid", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, fmt.Errorf("payroll entry %d: %w", payrollID, apperrors.ErrPayrollAlreadyPaid)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &payment, nil
}

// SaveAdvance persists the advance row, its cash-out transaction and journal
// entry, and applies the balance deltas as one atomic unit.
func (r *PgxPayrollRepository) SaveAdvance(ctx context.Context, advance domain.WorkerAdvance, txn domain.Transaction, entry domain.JournalEntry, deltas map[int64]decimal.Decimal) (*domain.WorkerAdvance, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if _, err := lockAndRecheckBalances(ctx, tx, r.accountRepo, deltas); err != nil {
		return nil, err
	}

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, advance.LastUpdatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply advance deltas", err)
	}

	entryID, err := r.journalRepo.SaveEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to append advance entry", err)
	}
	txn.JournalEntryID = &entryID

	if err := tx.QueryRow(ctx, insertTransactionQuery, transactionInsertArgs(txn)...).Scan(&txn.TransactionID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert advance transaction", err)
	}
	advance.TransactionID = &txn.TransactionID

	insertQuery := `
		INSERT INTO worker_advances (worker_id, amount, reason, date, source_account_id, transaction_id, is_settled, settled_amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, 0, $7, $8)
		RETURNING advance_id;
	`
	err = tx.QueryRow(ctx, insertQuery,
		advance.WorkerID,
		advance.Amount,
		advance.Reason,
		advance.Date,
		advance.SourceAccountID,
		advance.TransactionID,
		advance.CreatedAt,
		advance.LastUpdatedAt,
	).Scan(&advance.AdvanceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert advance", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &advance, nil
}
