package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

// payrollServiceImpl implements the PayrollSvcFacade interface
type payrollServiceImpl struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	workerRepo  portsrepo.WorkerReader
	accountRepo portsrepo.AccountReader
	clock       ports.Clock
}

// NewPayrollService creates a new payroll service
func NewPayrollService(payrollRepo portsrepo.PayrollRepositoryFacade, workerRepo portsrepo.WorkerReader, accountRepo portsrepo.AccountReader, clock ports.Clock) portssvc.PayrollSvcFacade {
	return &payrollServiceImpl{
		payrollRepo: payrollRepo,
		workerRepo:  workerRepo,
		accountRepo: accountRepo,
		clock:       clock,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollServiceImpl)(nil)

func (s *payrollServiceImpl) CalculatePayroll(ctx context.Context, workerID int64, from, to time.Time) (*domain.PayrollCalculation, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	attendance, err := s.workerRepo.ListAttendance(ctx, workerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list attendance", slog.Int64("worker_id", workerID))
		return nil, err
	}

	daysPresent := 0
	halfDays := 0
	overtimeHours := decimal.Zero
	for _, a := range attendance {
		switch a.Status {
		case domain.Present:
			daysPresent++
		case domain.Overtime:
			// An overtime day counts as a full day plus its extra hours.
			daysPresent++
			overtimeHours = overtimeHours.Add(a.OvertimeHours)
		case domain.HalfDay:
			halfDays++
		}
	}

	deductions, err := s.payrollRepo.SumDeductions(ctx, workerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum deductions", slog.Int64("worker_id", workerID))
		return nil, err
	}

	advances, err := s.payrollRepo.SumUnsettledAdvances(ctx, workerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum unsettled advances", slog.Int64("worker_id", workerID))
		return nil, err
	}

	gross := accounting.GrossWage(worker.DailyRate, daysPresent, halfDays, overtimeHours)
	return &domain.PayrollCalculation{
		WorkerID:          worker.WorkerID,
		WorkerName:        worker.Name,
		PeriodStart:       from,
		PeriodEnd:         to,
		DaysPresent:       daysPresent,
		HalfDays:          halfDays,
		OvertimeHours:     overtimeHours,
		DailyRate:         worker.DailyRate,
		OvertimeRate:      accounting.OvertimeRate(worker.DailyRate),
		GrossWage:         gross,
		Deductions:        deductions,
		UnsettledAdvances: advances,
		NetWage:           accounting.NetWage(gross, deductions, advances),
	}, nil
}

func (s *payrollServiceImpl) GeneratePayroll(ctx context.Context, req dto.GeneratePayrollRequest) (*domain.PayrollEntry, error) {
	from, to, err := dto.ParseDateRange(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	calc, err := s.CalculatePayroll(ctx, req.WorkerID, from, to)
	if err != nil {
		return nil, err
	}

	wagesPayable, err := s.accountRepo.FindAccountByCode(ctx, domain.WagesPayableCode)
	if err != nil {
		s.LogError(ctx, err, "Wages payable system account missing")
		return nil, err
	}

	now := s.clock.Now()
	entry := domain.PayrollEntry{
		WorkerID:         calc.WorkerID,
		PeriodStart:      from,
		PeriodEnd:        to,
		DaysPresent:      calc.DaysPresent,
		HalfDays:         calc.HalfDays,
		OvertimeHours:    calc.OvertimeHours,
		DailyRate:        calc.DailyRate,
		OvertimeRate:     calc.OvertimeRate,
		GrossWage:        calc.GrossWage,
		Deductions:       calc.Deductions,
		AdvancesDeducted: calc.UnsettledAdvances,
		NetWage:          calc.NetWage,
		Status:           domain.PayrollDraft,
		ProjectID:        req.ProjectID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// Accrue the gross wage as a liability. The entry is self-referencing on
	// the wages payable account; the counter-movement happens at settlement.
	liability := domain.JournalEntry{
		EntryDate:       now,
		Description:     fmt.Sprintf("Wage accrual for %s (%s to %s)", calc.WorkerName, dto.FormatDate(from), dto.FormatDate(to)),
		DebitAccountID:  wagesPayable.AccountID,
		CreditAccountID: wagesPayable.AccountID,
		Amount:          calc.GrossWage,
		ReferenceType:   domain.RefPayroll,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	deltas := map[int64]decimal.Decimal{wagesPayable.AccountID: calc.GrossWage}

	saved, err := s.payrollRepo.SavePayrollRun(ctx, entry, liability, deltas)
	if err != nil {
		s.LogError(ctx, err, "Failed to save payroll run", slog.Int64("worker_id", req.WorkerID))
		return nil, err
	}

	metrics.PayrollRuns.Inc()
	s.LogInfo(ctx, "Payroll generated",
		slog.Int64("payroll_id", saved.PayrollID),
		slog.Int64("worker_id", saved.WorkerID),
		slog.String("gross_wage", saved.GrossWage.String()))
	return saved, nil
}

func (s *payrollServiceImpl) ProcessWagePayment(ctx context.Context, req dto.WagePaymentRequest) (*domain.PayrollEntry, error) {
	payroll, err := s.payrollRepo.FindPayrollByID(ctx, req.PayrollID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("payroll entry %d: %w", req.PayrollID, apperrors.ErrTransactionNotFound)
		}
		return nil, err
	}
	if payroll.Status == domain.PayrollPaid {
		return nil, fmt.Errorf("payroll entry %d: %w", req.PayrollID, apperrors.ErrPayrollAlreadyPaid)
	}

	source, err := s.accountRepo.FindAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive {
		return nil, fmt.Errorf("account %d is inactive: %w", source.AccountID, apperrors.ErrAccountNotFound)
	}
	if source.Balance.LessThan(payroll.NetWage) {
		return nil, apperrors.NewInsufficientBalanceError(source.AccountID, payroll.NetWage, source.Balance)
	}

	wagesPayable, err := s.accountRepo.FindAccountByCode(ctx, domain.WagesPayableCode)
	if err != nil {
		s.LogError(ctx, err, "Wages payable system account missing")
		return nil, err
	}

	now := s.clock.Now()
	workerID := payroll.WorkerID
	payment := domain.Transaction{
		TransactionType: domain.Expense,
		Amount:          payroll.NetWage,
		Category:        "Wages",
		Description:     fmt.Sprintf("Wage payment for payroll %d", payroll.PayrollID),
		Date:            now,
		SourceAccountID: &req.SourceAccountID,
		ProjectID:       payroll.ProjectID,
		WorkerID:        &workerID,
		State:           domain.Cleared,
		ReferenceNo:     uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	payrollID := payroll.PayrollID
	entry := domain.JournalEntry{
		EntryDate:       now,
		Description:     payment.Description,
		DebitAccountID:  wagesPayable.AccountID,
		CreditAccountID: source.AccountID,
		Amount:          payroll.NetWage,
		ReferenceType:   domain.RefPayroll,
		ReferenceID:     &payrollID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	// The paying account gives up the net wage while the accrued gross
	// liability is released in full; deductions and settled advances make up
	// the difference.
	deltas := map[int64]decimal.Decimal{
		source.AccountID: payroll.NetWage.Neg(),
	}
	deltas[wagesPayable.AccountID] = deltas[wagesPayable.AccountID].Sub(payroll.GrossWage)

	if len(req.SettleAdvanceIDs) > 0 {
		advancesReceivable, err := s.accountRepo.FindAccountByCode(ctx, domain.AdvancesReceivableCode)
		if err != nil {
			s.LogError(ctx, err, "Advances receivable system account missing")
			return nil, err
		}
		for _, advanceID := range req.SettleAdvanceIDs {
			advance, err := s.payrollRepo.FindAdvanceByID(ctx, advanceID)
			if err != nil {
				return nil, err
			}
			if advance.WorkerID != payroll.WorkerID {
				return nil, fmt.Errorf("advance %d belongs to another worker: %w", advanceID, apperrors.ErrValidation)
			}
			if advance.IsSettled {
				return nil, fmt.Errorf("advance %d is already settled: %w", advanceID, apperrors.ErrValidation)
			}
			deltas[advancesReceivable.AccountID] = deltas[advancesReceivable.AccountID].Sub(advance.Amount)
		}
	}

	txn, err := s.payrollRepo.SettleWagePayment(ctx, payroll.PayrollID, payment, entry, deltas, req.SettleAdvanceIDs, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to settle wage payment", slog.Int64("payroll_id", payroll.PayrollID))
		return nil, err
	}

	payroll.Status = domain.PayrollPaid
	payroll.SettlementTransactionID = &txn.TransactionID
	payroll.LastUpdatedAt = now

	metrics.WagePayments.Inc()
	s.LogInfo(ctx, "Wage payment settled",
		slog.Int64("payroll_id", payroll.PayrollID),
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("net_wage", payroll.NetWage.String()))
	return payroll, nil
}

func (s *payrollServiceImpl) ProcessAdvance(ctx context.Context, req dto.AdvanceRequest) (*domain.WorkerAdvance, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("advance amount must be positive, got %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
	}

	advanceDate, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	worker, err := s.workerRepo.FindWorkerByID(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}

	source, err := s.accountRepo.FindAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive {
		return nil, fmt.Errorf("account %d is inactive: %w", source.AccountID, apperrors.ErrAccountNotFound)
	}
	if source.Balance.LessThan(req.Amount) {
		return nil, apperrors.NewInsufficientBalanceError(source.AccountID, req.Amount, source.Balance)
	}

	advancesReceivable, err := s.accountRepo.FindAccountByCode(ctx, domain.AdvancesReceivableCode)
	if err != nil {
		s.LogError(ctx, err, "Advances receivable system account missing")
		return nil, err
	}

	now := s.clock.Now()
	workerID := worker.WorkerID
	destinationID := advancesReceivable.AccountID
	txn := domain.Transaction{
		TransactionType:      domain.Transfer,
		Amount:               req.Amount,
		Category:             "Advance",
		Description:          fmt.Sprintf("Advance to %s", worker.Name),
		Date:                 advanceDate,
		SourceAccountID:      &req.SourceAccountID,
		DestinationAccountID: &destinationID,
		WorkerID:             &workerID,
		State:                domain.Cleared,
		ReferenceNo:          uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	entry := domain.JournalEntry{
		EntryDate:       advanceDate,
		Description:     txn.Description,
		DebitAccountID:  advancesReceivable.AccountID,
		CreditAccountID: source.AccountID,
		Amount:          req.Amount,
		ReferenceType:   domain.RefAdvance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	deltas := map[int64]decimal.Decimal{
		source.AccountID:             req.Amount.Neg(),
		advancesReceivable.AccountID: req.Amount,
	}

	advance := domain.WorkerAdvance{
		WorkerID:        worker.WorkerID,
		Amount:          req.Amount,
		Reason:          req.Reason,
		Date:            advanceDate,
		SourceAccountID: req.SourceAccountID,
		SettledAmount:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.payrollRepo.SaveAdvance(ctx, advance, txn, entry, deltas)
	if err != nil {
		s.LogError(ctx, err, "Failed to save advance",
			slog.Int64("worker_id", req.WorkerID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Advance processed",
		slog.Int64("advance_id", saved.AdvanceID),
		slog.Int64("worker_id", saved.WorkerID),
		slog.String("amount", saved.Amount.String()))
	return saved, nil
}

func (s *payrollServiceImpl) GetPayrollByID(ctx context.Context, payrollID int64) (*domain.PayrollEntry, error) {
	return s.payrollRepo.FindPayrollByID(ctx, payrollID)
}

func (s *payrollServiceImpl) ListPayrollsByWorker(ctx context.Context, workerID int64) ([]domain.PayrollEntry, error) {
	return s.payrollRepo.ListPayrollsByWorker(ctx, workerID)
}

func (s *payrollServiceImpl) ListAdvancesByWorker(ctx context.Context, workerID int64, unsettledOnly bool) ([]domain.WorkerAdvance, error) {
	return s.payrollRepo.ListAdvancesByWorker(ctx, workerID, unsettledOnly)
}
