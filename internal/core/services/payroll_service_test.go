package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/core/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

const (
	wagesPayableID       = int64(100)
	advancesReceivableID = int64(101)
)

type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo *MockPayrollRepository
	mockWorkerRepo  *MockWorkerRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PayrollSvcFacade
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockWorkerRepo = new(MockWorkerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewPayrollService(suite.mockPayrollRepo, suite.mockWorkerRepo, suite.mockAccountRepo, ports.FixedClock(fixedNow))
}

func wagesPayableAccount() *domain.Account {
	return &domain.Account{
		AccountID:   wagesPayableID,
		Code:        domain.WagesPayableCode,
		Name:        "Wages Payable",
		AccountType: domain.Payable,
		Category:    domain.CategoryLiability,
		Balance:     decimal.Zero,
		IsActive:    true,
		IsSystem:    true,
	}
}

func advancesReceivableAccount() *domain.Account {
	return &domain.Account{
		AccountID:   advancesReceivableID,
		Code:        domain.AdvancesReceivableCode,
		Name:        "Advances Receivable",
		AccountType: domain.Receivable,
		Category:    domain.CategoryAsset,
		Balance:     decimal.Zero,
		IsActive:    true,
		IsSystem:    true,
	}
}

// monthOfAttendance builds 19 PRESENT days, one OVERTIME day with 3 extra
// hours and 2 HALF_DAY rows, so the month counts 20 full days in total.
func monthOfAttendance(workerID int64, start time.Time) []domain.Attendance {
	var rows []domain.Attendance
	day := start
	for i := 0; i < 19; i++ {
		rows = append(rows, domain.Attendance{WorkerID: workerID, Date: day, Status: domain.Present})
		day = day.AddDate(0, 0, 1)
	}
	rows = append(rows, domain.Attendance{WorkerID: workerID, Date: day, Status: domain.Overtime, OvertimeHours: d("3")})
	day = day.AddDate(0, 0, 1)
	for i := 0; i < 2; i++ {
		rows = append(rows, domain.Attendance{WorkerID: workerID, Date: day, Status: domain.HalfDay})
		day = day.AddDate(0, 0, 1)
	}
	rows = append(rows, domain.Attendance{WorkerID: workerID, Date: day, Status: domain.Absent})
	return rows
}

func (suite *PayrollServiceTestSuite) TestCalculatePayroll_FullBreakdown() {
	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	worker := &domain.Worker{WorkerID: 1, Name: "Ahmed", DailyRate: d("200"), IsActive: true}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(1)).Return(worker, nil).Once()
	suite.mockWorkerRepo.On("ListAttendance", ctx, int64(1), from, to).Return(monthOfAttendance(1, from), nil).Once()
	suite.mockPayrollRepo.On("SumDeductions", ctx, int64(1), from, to).Return(d("50"), nil).Once()
	suite.mockPayrollRepo.On("SumUnsettledAdvances", ctx, int64(1), from, to).Return(d("100"), nil).Once()

	calc, err := suite.service.CalculatePayroll(ctx, 1, from, to)

	suite.Require().NoError(err)
	suite.Require().NotNil(calc)
	suite.Equal(20, calc.DaysPresent)
	suite.Equal(2, calc.HalfDays)
	suite.True(calc.OvertimeHours.Equal(d("3")))
	// Hourly overtime at 1.5x the implied hourly rate: 200/8*1.5 = 37.5.
	suite.True(calc.OvertimeRate.Equal(d("37.5")), "overtime rate: %s", calc.OvertimeRate)
	// 200*20 + 100*2 + 37.5*3 = 4312.5
	suite.True(calc.GrossWage.Equal(d("4312.5")), "gross: %s", calc.GrossWage)
	suite.True(calc.Deductions.Equal(d("50")))
	suite.True(calc.UnsettledAdvances.Equal(d("100")))
	// 4312.5 - 50 - 100 = 4162.5
	suite.True(calc.NetWage.Equal(d("4162.5")), "net: %s", calc.NetWage)

	suite.mockWorkerRepo.AssertExpectations(suite.T())
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestCalculatePayroll_NetClampedAtZero() {
	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	worker := &domain.Worker{WorkerID: 1, Name: "Ahmed", DailyRate: d("200"), IsActive: true}
	attendance := []domain.Attendance{
		{WorkerID: 1, Date: from, Status: domain.Present},
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(1)).Return(worker, nil).Once()
	suite.mockWorkerRepo.On("ListAttendance", ctx, int64(1), from, to).Return(attendance, nil).Once()
	suite.mockPayrollRepo.On("SumDeductions", ctx, int64(1), from, to).Return(d("500"), nil).Once()
	suite.mockPayrollRepo.On("SumUnsettledAdvances", ctx, int64(1), from, to).Return(d("0"), nil).Once()

	calc, err := suite.service.CalculatePayroll(ctx, 1, from, to)

	suite.Require().NoError(err)
	// Deductions exceed the gross wage; the net never goes negative.
	suite.True(calc.NetWage.IsZero(), "net: %s", calc.NetWage)
}

func (suite *PayrollServiceTestSuite) TestCalculatePayroll_WorkerNotFound() {
	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(99)).Return(nil, apperrors.ErrWorkerNotFound).Once()

	calc, err := suite.service.CalculatePayroll(ctx, 99, from, to)

	suite.Require().Error(err)
	suite.Nil(calc)
	suite.ErrorIs(err, apperrors.ErrWorkerNotFound)
}

func (suite *PayrollServiceTestSuite) TestGeneratePayroll_AccruesLiability() {
	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	worker := &domain.Worker{WorkerID: 1, Name: "Ahmed", DailyRate: d("200"), IsActive: true}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(1)).Return(worker, nil).Once()
	suite.mockWorkerRepo.On("ListAttendance", ctx, int64(1), from, to).Return(monthOfAttendance(1, from), nil).Once()
	suite.mockPayrollRepo.On("SumDeductions", ctx, int64(1), from, to).Return(d("50"), nil).Once()
	suite.mockPayrollRepo.On("SumUnsettledAdvances", ctx, int64(1), from, to).Return(d("100"), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.WagesPayableCode).Return(wagesPayableAccount(), nil).Once()

	suite.mockPayrollRepo.On("SavePayrollRun", ctx,
		mock.MatchedBy(func(entry domain.PayrollEntry) bool {
			return entry.Status == domain.PayrollDraft &&
				entry.GrossWage.Equal(d("4312.5")) &&
				entry.NetWage.Equal(d("4162.5"))
		}),
		mock.MatchedBy(func(liability domain.JournalEntry) bool {
			return liability.DebitAccountID == wagesPayableID &&
				liability.CreditAccountID == wagesPayableID &&
				liability.Amount.Equal(d("4312.5")) &&
				liability.ReferenceType == domain.RefPayroll
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[wagesPayableID].Equal(d("4312.5"))
		}),
	).Return(&domain.PayrollEntry{PayrollID: 33, WorkerID: 1, GrossWage: d("4312.5"), NetWage: d("4162.5"), Status: domain.PayrollDraft}, nil).Once()

	payroll, err := suite.service.GeneratePayroll(ctx, dto.GeneratePayrollRequest{
		WorkerID:    1,
		PeriodStart: "2024-05-01",
		PeriodEnd:   "2024-05-31",
	})

	suite.Require().NoError(err)
	suite.Equal(int64(33), payroll.PayrollID)
	suite.Equal(domain.PayrollDraft, payroll.Status)

	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestGeneratePayroll_InvertedRange() {
	ctx := context.Background()

	payroll, err := suite.service.GeneratePayroll(ctx, dto.GeneratePayrollRequest{
		WorkerID:    1,
		PeriodStart: "2024-05-31",
		PeriodEnd:   "2024-05-01",
	})

	suite.Require().Error(err)
	suite.Nil(payroll)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockWorkerRepo.AssertNotCalled(suite.T(), "FindWorkerByID", mock.Anything, mock.Anything)
}

func draftPayroll() *domain.PayrollEntry {
	return &domain.PayrollEntry{
		PayrollID: 33,
		WorkerID:  1,
		GrossWage: d("4312.5"),
		NetWage:   d("4162.5"),
		Status:    domain.PayrollDraft,
	}
}

func (suite *PayrollServiceTestSuite) TestProcessWagePayment_Success() {
	ctx := context.Background()
	source := activeAccount(1, "5000")

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, int64(33)).Return(draftPayroll(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.WagesPayableCode).Return(wagesPayableAccount(), nil).Once()

	suite.mockPayrollRepo.On("SettleWagePayment", ctx, int64(33),
		mock.MatchedBy(func(payment domain.Transaction) bool {
			return payment.TransactionType == domain.Expense &&
				payment.State == domain.Cleared &&
				payment.Amount.Equal(d("4162.5")) &&
				payment.Category == "Wages"
		}),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			// Settlement debits the liability and credits the paying account.
			return entry.DebitAccountID == wagesPayableID &&
				entry.CreditAccountID == 1 &&
				entry.Amount.Equal(d("4162.5")) &&
				entry.ReferenceID != nil && *entry.ReferenceID == 33
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			// Source pays the net; the full accrued gross is released.
			return deltas[1].Equal(d("-4162.5")) && deltas[wagesPayableID].Equal(d("-4312.5"))
		}),
		[]int64(nil),
		fixedNow,
	).Return(&domain.Transaction{TransactionID: 77}, nil).Once()

	payroll, err := suite.service.ProcessWagePayment(ctx, dto.WagePaymentRequest{PayrollID: 33, SourceAccountID: 1})

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPaid, payroll.Status)
	suite.Require().NotNil(payroll.SettlementTransactionID)
	suite.Equal(int64(77), *payroll.SettlementTransactionID)

	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessWagePayment_SettlesAdvances() {
	ctx := context.Background()
	source := activeAccount(1, "5000")
	advance := &domain.WorkerAdvance{AdvanceID: 8, WorkerID: 1, Amount: d("100")}

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, int64(33)).Return(draftPayroll(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.WagesPayableCode).Return(wagesPayableAccount(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.AdvancesReceivableCode).Return(advancesReceivableAccount(), nil).Once()
	suite.mockPayrollRepo.On("FindAdvanceByID", ctx, int64(8)).Return(advance, nil).Once()

	suite.mockPayrollRepo.On("SettleWagePayment", ctx, int64(33),
		mock.AnythingOfType("domain.Transaction"),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[advancesReceivableID].Equal(d("-100"))
		}),
		[]int64{8},
		fixedNow,
	).Return(&domain.Transaction{TransactionID: 78}, nil).Once()

	payroll, err := suite.service.ProcessWagePayment(ctx, dto.WagePaymentRequest{
		PayrollID:        33,
		SourceAccountID:  1,
		SettleAdvanceIDs: []int64{8},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPaid, payroll.Status)

	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessWagePayment_AlreadyPaid() {
	ctx := context.Background()
	paid := draftPayroll()
	paid.Status = domain.PayrollPaid

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, int64(33)).Return(paid, nil).Once()

	payroll, err := suite.service.ProcessWagePayment(ctx, dto.WagePaymentRequest{PayrollID: 33, SourceAccountID: 1})

	suite.Require().Error(err)
	suite.Nil(payroll)
	suite.ErrorIs(err, apperrors.ErrPayrollAlreadyPaid)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SettleWagePayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestProcessWagePayment_InsufficientBalance() {
	ctx := context.Background()
	source := activeAccount(1, "1000")

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, int64(33)).Return(draftPayroll(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()

	payroll, err := suite.service.ProcessWagePayment(ctx, dto.WagePaymentRequest{PayrollID: 33, SourceAccountID: 1})

	suite.Require().Error(err)
	suite.Nil(payroll)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *PayrollServiceTestSuite) TestProcessWagePayment_ForeignAdvanceRejected() {
	ctx := context.Background()
	source := activeAccount(1, "5000")
	foreignAdvance := &domain.WorkerAdvance{AdvanceID: 8, WorkerID: 2, Amount: d("100")}

	suite.mockPayrollRepo.On("FindPayrollByID", ctx, int64(33)).Return(draftPayroll(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.WagesPayableCode).Return(wagesPayableAccount(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.AdvancesReceivableCode).Return(advancesReceivableAccount(), nil).Once()
	suite.mockPayrollRepo.On("FindAdvanceByID", ctx, int64(8)).Return(foreignAdvance, nil).Once()

	payroll, err := suite.service.ProcessWagePayment(ctx, dto.WagePaymentRequest{
		PayrollID:        33,
		SourceAccountID:  1,
		SettleAdvanceIDs: []int64{8},
	})

	suite.Require().Error(err)
	suite.Nil(payroll)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestProcessAdvance_Success() {
	ctx := context.Background()
	worker := &domain.Worker{WorkerID: 1, Name: "Ahmed", DailyRate: d("200"), IsActive: true}
	source := activeAccount(1, "1000")

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(1)).Return(worker, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, domain.AdvancesReceivableCode).Return(advancesReceivableAccount(), nil).Once()

	suite.mockPayrollRepo.On("SaveAdvance", ctx,
		mock.MatchedBy(func(advance domain.WorkerAdvance) bool {
			return advance.WorkerID == 1 && advance.Amount.Equal(d("100")) && !advance.IsSettled
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.TransactionType == domain.Transfer &&
				txn.DestinationAccountID != nil && *txn.DestinationAccountID == advancesReceivableID
		}),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.DebitAccountID == advancesReceivableID &&
				entry.CreditAccountID == 1 &&
				entry.ReferenceType == domain.RefAdvance
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[1].Equal(d("-100")) && deltas[advancesReceivableID].Equal(d("100"))
		}),
	).Return(&domain.WorkerAdvance{AdvanceID: 8, WorkerID: 1, Amount: d("100")}, nil).Once()

	advance, err := suite.service.ProcessAdvance(ctx, dto.AdvanceRequest{
		WorkerID:        1,
		Amount:          d("100"),
		SourceAccountID: 1,
		Date:            "2024-05-15",
	})

	suite.Require().NoError(err)
	suite.Equal(int64(8), advance.AdvanceID)

	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessAdvance_InsufficientBalance() {
	ctx := context.Background()
	worker := &domain.Worker{WorkerID: 1, Name: "Ahmed", DailyRate: d("200"), IsActive: true}
	source := activeAccount(1, "50")

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, int64(1)).Return(worker, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()

	advance, err := suite.service.ProcessAdvance(ctx, dto.AdvanceRequest{
		WorkerID:        1,
		Amount:          d("100"),
		SourceAccountID: 1,
		Date:            "2024-05-15",
	})

	suite.Require().Error(err)
	suite.Nil(advance)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SaveAdvance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---

func TestPayrollService(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
