package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of monetary container an account represents.
type AccountType string

const (
	CashBox    AccountType = "CASH_BOX"
	Bank       AccountType = "BANK"
	Wallet     AccountType = "WALLET"
	Receivable AccountType = "RECEIVABLE"
	Payable    AccountType = "PAYABLE"
)

// AccountCategory groups accounts for balance-sheet style aggregation.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "ASSET"
	CategoryLiability AccountCategory = "LIABILITY"
)

// Well-known system account codes. These accounts are seeded by migration
// and protected from deactivation.
const (
	WagesPayableCode       = "WAGES_PAYABLE"
	AdvancesReceivableCode = "ADVANCES_RECEIVABLE"
)

// Account represents a monetary container (cash box, bank account, wallet,
// receivable or payable) within the core domain.
//
// Balance is a cached value: the algebraic sum of every non-void
// transaction's effect on this account since creation. The transaction log
// is authoritative; RecomputeAccountBalance rebuilds the balance from it.
type Account struct {
	AccountID     int64           `json:"accountID"`
	Code          string          `json:"code"` // Unique short identifier, e.g. "WAGES_PAYABLE"
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	Category      AccountCategory `json:"category"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	IsSystem      bool            `json:"isSystem"` // Protected from deactivation
	BankName      string          `json:"bankName"` // Optional bank metadata
	BankAccountNo string          `json:"bankAccountNo"`
	AuditFields
}

// DefaultCategory returns the balance-sheet grouping implied by an account type.
func DefaultCategory(t AccountType) AccountCategory {
	if t == Payable {
		return CategoryLiability
	}
	return CategoryAsset
}

// AccountFilter narrows account listings. Nil fields match everything.
type AccountFilter struct {
	AccountType *AccountType
	Category    *AccountCategory
	OnlyActive  bool
}

// AccountSummary aggregates cached balances across the chart of accounts.
type AccountSummary struct {
	TotalAssets      decimal.Decimal                 `json:"totalAssets"`
	TotalLiabilities decimal.Decimal                 `json:"totalLiabilities"`
	ByType           map[AccountType]decimal.Decimal `json:"byType"`
}
