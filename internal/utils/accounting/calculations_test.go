package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func i64(v int64) *int64 { return &v }

func TestGrossWage(t *testing.T) {
	tests := []struct {
		name          string
		dailyRate     string
		daysPresent   int
		halfDays      int
		overtimeHours string
		want          string
	}{
		{"full month with overtime", "200", 20, 2, "3", "4312.5"},
		{"no attendance", "200", 0, 0, "0", "0"},
		{"half days only", "300", 0, 4, "0", "600"},
		{"overtime only", "400", 0, 0, "2", "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrossWage(d(tt.dailyRate), tt.daysPresent, tt.halfDays, d(tt.overtimeHours))
			assert.True(t, d(tt.want).Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestOvertimeRate(t *testing.T) {
	assert.True(t, d("37.5").Equal(OvertimeRate(d("200"))))
	assert.True(t, d("93.75").Equal(OvertimeRate(d("500"))))
}

func TestNetWage(t *testing.T) {
	assert.True(t, d("4162.5").Equal(NetWage(d("4312.5"), d("50"), d("100"))))

	// Deductions larger than the gross clamp at zero.
	assert.True(t, decimal.Zero.Equal(NetWage(d("100"), d("80"), d("50"))))
}

func TestTransactionEffect(t *testing.T) {
	income := &domain.Transaction{
		TransactionType: domain.Income,
		Amount:          d("500"),
		SourceAccountID: i64(1),
		State:           domain.Cleared,
	}
	expense := &domain.Transaction{
		TransactionType: domain.Expense,
		Amount:          d("300"),
		SourceAccountID: i64(1),
		State:           domain.Cleared,
	}
	transfer := &domain.Transaction{
		TransactionType:      domain.Transfer,
		Amount:               d("250"),
		SourceAccountID:      i64(1),
		DestinationAccountID: i64(2),
		State:                domain.Cleared,
	}

	assert.True(t, d("500").Equal(TransactionEffect(income, 1)))
	assert.True(t, d("-300").Equal(TransactionEffect(expense, 1)))
	assert.True(t, d("-250").Equal(TransactionEffect(transfer, 1)))
	assert.True(t, d("250").Equal(TransactionEffect(transfer, 2)))

	// Accounts not involved see no effect.
	assert.True(t, decimal.Zero.Equal(TransactionEffect(transfer, 99)))
}

func TestTransactionEffectVoidAndLegacy(t *testing.T) {
	void := &domain.Transaction{
		TransactionType: domain.Expense,
		Amount:          d("300"),
		SourceAccountID: i64(1),
		State:           domain.Void,
	}
	assert.True(t, decimal.Zero.Equal(TransactionEffect(void, 1)))

	// Legacy rows carry the account id in the legacy column.
	legacy := &domain.Transaction{
		TransactionType: domain.Income,
		Amount:          d("120"),
		LegacyAccountID: i64(7),
		State:           domain.Cleared,
	}
	assert.True(t, d("120").Equal(TransactionEffect(legacy, 7)))
}
