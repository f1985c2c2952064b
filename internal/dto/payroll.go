package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// CalculatePayrollParams defines query parameters for a dry-run wage calculation.
type CalculatePayrollParams struct {
	From string `form:"from" binding:"required"` // yyyy-MM-dd
	To   string `form:"to" binding:"required"`
}

// GeneratePayrollRequest persists a DRAFT payroll entry and accrues the
// wage liability.
type GeneratePayrollRequest struct {
	WorkerID    int64  `json:"workerID" binding:"required"`
	PeriodStart string `json:"periodStart" binding:"required"`
	PeriodEnd   string `json:"periodEnd" binding:"required"`
	ProjectID   *int64 `json:"projectID"`
}

// WagePaymentRequest settles a DRAFT payroll entry from a paying account,
// optionally settling the listed advances in the same atomic unit.
type WagePaymentRequest struct {
	PayrollID        int64   `json:"payrollID" binding:"required"`
	SourceAccountID  int64   `json:"sourceAccountID" binding:"required"`
	SettleAdvanceIDs []int64 `json:"settleAdvanceIDs"`
}

// AdvanceRequest hands cash to a worker ahead of wages.
type AdvanceRequest struct {
	WorkerID        int64           `json:"workerID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	SourceAccountID int64           `json:"sourceAccountID" binding:"required"`
	Reason          string          `json:"reason"`
	Date            string          `json:"date" binding:"required"`
}

// PayrollResponse defines the data returned for a payroll entry.
type PayrollResponse struct {
	PayrollID               int64                `json:"payrollID"`
	WorkerID                int64                `json:"workerID"`
	PeriodStart             string               `json:"periodStart"`
	PeriodEnd               string               `json:"periodEnd"`
	DaysPresent             int                  `json:"daysPresent"`
	HalfDays                int                  `json:"halfDays"`
	OvertimeHours           decimal.Decimal      `json:"overtimeHours"`
	DailyRate               decimal.Decimal      `json:"dailyRate"`
	OvertimeRate            decimal.Decimal      `json:"overtimeRate"`
	GrossWage               decimal.Decimal      `json:"grossWage"`
	Deductions              decimal.Decimal      `json:"deductions"`
	AdvancesDeducted        decimal.Decimal      `json:"advancesDeducted"`
	NetWage                 decimal.Decimal      `json:"netWage"`
	Status                  domain.PayrollStatus `json:"status"`
	ProjectID               *int64               `json:"projectID"`
	SettlementTransactionID *int64               `json:"settlementTransactionID"`
}

// ToPayrollResponse converts a domain.PayrollEntry to its response DTO.
func ToPayrollResponse(p *domain.PayrollEntry) PayrollResponse {
	return PayrollResponse{
		PayrollID:               p.PayrollID,
		WorkerID:                p.WorkerID,
		PeriodStart:             FormatDate(p.PeriodStart),
		PeriodEnd:               FormatDate(p.PeriodEnd),
		DaysPresent:             p.DaysPresent,
		HalfDays:                p.HalfDays,
		OvertimeHours:           p.OvertimeHours,
		DailyRate:               p.DailyRate,
		OvertimeRate:            p.OvertimeRate,
		GrossWage:               p.GrossWage,
		Deductions:              p.Deductions,
		AdvancesDeducted:        p.AdvancesDeducted,
		NetWage:                 p.NetWage,
		Status:                  p.Status,
		ProjectID:               p.ProjectID,
		SettlementTransactionID: p.SettlementTransactionID,
	}
}

// AdvanceResponse defines the data returned for a worker advance.
type AdvanceResponse struct {
	AdvanceID               int64           `json:"advanceID"`
	WorkerID                int64           `json:"workerID"`
	Amount                  decimal.Decimal `json:"amount"`
	Reason                  string          `json:"reason"`
	Date                    string          `json:"date"`
	SourceAccountID         int64           `json:"sourceAccountID"`
	TransactionID           *int64          `json:"transactionID"`
	IsSettled               bool            `json:"isSettled"`
	SettledAt               *string         `json:"settledAt,omitempty"`
	SettledAmount           decimal.Decimal `json:"settledAmount"`
	SettlementTransactionID *int64          `json:"settlementTransactionID"`
}

// ToAdvanceResponse converts a domain.WorkerAdvance to its response DTO.
func ToAdvanceResponse(a *domain.WorkerAdvance) AdvanceResponse {
	res := AdvanceResponse{
		AdvanceID:               a.AdvanceID,
		WorkerID:                a.WorkerID,
		Amount:                  a.Amount,
		Reason:                  a.Reason,
		Date:                    FormatDate(a.Date),
		SourceAccountID:         a.SourceAccountID,
		TransactionID:           a.TransactionID,
		IsSettled:               a.IsSettled,
		SettledAmount:           a.SettledAmount,
		SettlementTransactionID: a.SettlementTransactionID,
	}
	if a.SettledAt != nil {
		settled := FormatTimestamp(*a.SettledAt)
		res.SettledAt = &settled
	}
	return res
}

// ToAdvanceResponses converts a slice of advances to response DTOs.
func ToAdvanceResponses(advances []domain.WorkerAdvance) []AdvanceResponse {
	res := make([]AdvanceResponse, len(advances))
	for i := range advances {
		res[i] = ToAdvanceResponse(&advances[i])
	}
	return res
}
