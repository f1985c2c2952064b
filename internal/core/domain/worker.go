package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is an upstream collaborator record: the payroll engine reads it,
// never owns it.
type Worker struct {
	WorkerID  int64           `json:"workerID"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	DailyRate decimal.Decimal `json:"dailyRate"`
	ProjectID *int64          `json:"projectID"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}

// AttendanceStatus classifies one day of a worker's attendance.
type AttendanceStatus string

const (
	Present  AttendanceStatus = "PRESENT"
	Absent   AttendanceStatus = "ABSENT"
	HalfDay  AttendanceStatus = "HALF_DAY"
	Overtime AttendanceStatus = "OVERTIME" // A present day with extra hours
)

// Attendance is one worker-day. OVERTIME days also carry the hours worked
// beyond the standard day.
type Attendance struct {
	AttendanceID  int64            `json:"attendanceID"`
	WorkerID      int64            `json:"workerID"`
	Date          time.Time        `json:"date"`
	Status        AttendanceStatus `json:"status"`
	OvertimeHours decimal.Decimal  `json:"overtimeHours"`
	ProjectID     *int64           `json:"projectID"`
}

// WorkerAdvance is cash handed to a worker ahead of wages. It debits the
// advances receivable account when created and is settled at most once,
// typically during a wage payment.
type WorkerAdvance struct {
	AdvanceID               int64           `json:"advanceID"`
	WorkerID                int64           `json:"workerID"`
	Amount                  decimal.Decimal `json:"amount"`
	Reason                  string          `json:"reason"`
	Date                    time.Time       `json:"date"`
	SourceAccountID         int64           `json:"sourceAccountID"`
	TransactionID           *int64          `json:"transactionID"` // Cash-out transaction
	IsSettled               bool            `json:"isSettled"`
	SettledAt               *time.Time      `json:"settledAt"`
	SettledAmount           decimal.Decimal `json:"settledAmount"`
	SettlementTransactionID *int64          `json:"settlementTransactionID"`
	AuditFields
}

// WorkerDeduction is a standing deduction (fine, damage, etc.) applied
// against a worker's wages for the period it falls in.
type WorkerDeduction struct {
	DeductionID int64           `json:"deductionID"`
	WorkerID    int64           `json:"workerID"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Date        time.Time       `json:"date"`
}
