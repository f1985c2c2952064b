package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus tracks a payroll entry from accrual to settlement.
type PayrollStatus string

const (
	PayrollDraft PayrollStatus = "DRAFT"
	PayrollPaid  PayrollStatus = "PAID"
)

// PayrollEntry records a worker's wages for one period. Created DRAFT with a
// matching liability journal entry; transitions to PAID exactly once.
type PayrollEntry struct {
	PayrollID               int64           `json:"payrollID"`
	WorkerID                int64           `json:"workerID"`
	PeriodStart             time.Time       `json:"periodStart"`
	PeriodEnd               time.Time       `json:"periodEnd"`
	DaysPresent             int             `json:"daysPresent"`
	HalfDays                int             `json:"halfDays"`
	OvertimeHours           decimal.Decimal `json:"overtimeHours"`
	DailyRate               decimal.Decimal `json:"dailyRate"`
	OvertimeRate            decimal.Decimal `json:"overtimeRate"`
	GrossWage               decimal.Decimal `json:"grossWage"`
	Deductions              decimal.Decimal `json:"deductions"`
	AdvancesDeducted        decimal.Decimal `json:"advancesDeducted"`
	NetWage                 decimal.Decimal `json:"netWage"`
	Status                  PayrollStatus   `json:"status"`
	ProjectID               *int64          `json:"projectID"`
	SettlementTransactionID *int64          `json:"settlementTransactionID"`
	JournalEntryID          *int64          `json:"journalEntryID"` // Liability accrual entry
	AuditFields
}

// PayrollCalculation is the derived wage breakdown for a worker and period,
// before anything is persisted or posted.
type PayrollCalculation struct {
	WorkerID          int64           `json:"workerID"`
	WorkerName        string          `json:"workerName"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	DaysPresent       int             `json:"daysPresent"`
	HalfDays          int             `json:"halfDays"`
	OvertimeHours     decimal.Decimal `json:"overtimeHours"`
	DailyRate         decimal.Decimal `json:"dailyRate"`
	OvertimeRate      decimal.Decimal `json:"overtimeRate"`
	GrossWage         decimal.Decimal `json:"grossWage"`
	Deductions        decimal.Decimal `json:"deductions"`
	UnsettledAdvances decimal.Decimal `json:"unsettledAdvances"`
	NetWage           decimal.Decimal `json:"netWage"`
}
