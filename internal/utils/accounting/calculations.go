// Package accounting holds the pure money math shared by the transaction,
// payroll and statement services. Everything here is side-effect free and
// operates on decimals only; rounding is left to the caller.
package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

var (
	two          = decimal.NewFromInt(2)
	hoursPerDay  = decimal.NewFromInt(8)
	overtimeBump = decimal.RequireFromString("1.5")
)

// TransactionEffect returns the signed effect a transaction has on the given
// account's balance. INCOME adds, EXPENSE subtracts, TRANSFER subtracts from
// the source and adds to the destination. VOID transactions and transactions
// that do not touch the account contribute zero.
func TransactionEffect(txn *domain.Transaction, accountID int64) decimal.Decimal {
	if txn.State == domain.Void {
		return decimal.Zero
	}
	switch txn.TransactionType {
	case domain.Income:
		if src, ok := txn.EffectiveSourceAccountID(); ok && src == accountID {
			return txn.Amount
		}
	case domain.Expense:
		if src, ok := txn.EffectiveSourceAccountID(); ok && src == accountID {
			return txn.Amount.Neg()
		}
	case domain.Transfer:
		if txn.SourceAccountID != nil && *txn.SourceAccountID == accountID {
			return txn.Amount.Neg()
		}
		if txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID {
			return txn.Amount
		}
	}
	return decimal.Zero
}

// OvertimeRate derives the hourly overtime rate from a daily rate: the daily
// rate spread over an 8 hour day, at time and a half.
func OvertimeRate(dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Div(hoursPerDay).Mul(overtimeBump)
}

// GrossWage computes the wage earned over a period. Full days pay the daily
// rate, half days pay half of it, overtime hours pay OvertimeRate per hour.
func GrossWage(dailyRate decimal.Decimal, daysPresent, halfDays int, overtimeHours decimal.Decimal) decimal.Decimal {
	gross := dailyRate.Mul(decimal.NewFromInt(int64(daysPresent)))
	gross = gross.Add(dailyRate.Div(two).Mul(decimal.NewFromInt(int64(halfDays))))
	gross = gross.Add(OvertimeRate(dailyRate).Mul(overtimeHours))
	return gross
}

// NetWage subtracts deductions and unsettled advances from the gross wage,
// clamped at zero. A worker is never billed for a negative payout.
func NetWage(gross, deductions, advances decimal.Decimal) decimal.Decimal {
	net := gross.Sub(deductions).Sub(advances)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
