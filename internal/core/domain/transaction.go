package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// TransactionState tracks a transaction through its lifecycle. Cleared
// transactions are never deleted; reversal flips them to Void and the
// journal keeps both sides of the story.
type TransactionState string

const (
	Pending TransactionState = "PENDING"
	Cleared TransactionState = "CLEARED"
	Void    TransactionState = "VOID"
)

// Transaction represents one validated money movement between accounts.
type Transaction struct {
	TransactionID        int64            `json:"transactionID"`
	TransactionType      TransactionType  `json:"transactionType"`
	Amount               decimal.Decimal  `json:"amount"` // Always positive
	Category             string           `json:"category"`
	Description          string           `json:"description"`
	Date                 time.Time        `json:"date"`
	SourceAccountID      *int64           `json:"sourceAccountID"`
	DestinationAccountID *int64           `json:"destinationAccountID"` // TRANSFER only
	LegacyAccountID      *int64           `json:"legacyAccountID"`      // Pre-ledger rows recorded only a bare account id
	ProjectID            *int64           `json:"projectID"`
	WorkerID             *int64           `json:"workerID"`
	State                TransactionState `json:"state"`
	JournalEntryID       *int64           `json:"journalEntryID"`
	ReferenceNo          string           `json:"referenceNo"`
	IsReconciled         bool             `json:"isReconciled"`
	AuditFields
}

// EffectiveSourceAccountID resolves the account a transaction draws from or
// credits into: the explicit source account when set, otherwise the legacy
// account id carried over from rows that predate the ledger.
func (t Transaction) EffectiveSourceAccountID() (int64, bool) {
	if t.SourceAccountID != nil {
		return *t.SourceAccountID, true
	}
	if t.LegacyAccountID != nil {
		return *t.LegacyAccountID, true
	}
	return 0, false
}

// Involves reports whether the transaction touches the given account.
func (t Transaction) Involves(accountID int64) bool {
	if src, ok := t.EffectiveSourceAccountID(); ok && src == accountID {
		return true
	}
	return t.DestinationAccountID != nil && *t.DestinationAccountID == accountID
}
