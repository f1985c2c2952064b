package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType links a journal entry back to the operation that produced it.
type ReferenceType string

const (
	RefTransaction    ReferenceType = "TRANSACTION"
	RefPayroll        ReferenceType = "PAYROLL"
	RefAdvance        ReferenceType = "ADVANCE"
	RefTransfer       ReferenceType = "TRANSFER"
	RefAdjustment     ReferenceType = "ADJUSTMENT"
	RefOpeningBalance ReferenceType = "OPENING_BALANCE"
)

// JournalEntry is one append-only debit/credit record documenting a
// balance-affecting event. Entries are never mutated or deleted after
// creation; correction is always an additional reversing entry.
//
// Single-account income/expense entries debit and credit the same account
// id. That bookkeeping simplification is deliberate and preserved.
type JournalEntry struct {
	EntryID         int64           `json:"entryID"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	DebitAccountID  int64           `json:"debitAccountID"`
	CreditAccountID int64           `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	ReferenceType   ReferenceType   `json:"referenceType"`
	ReferenceID     *int64          `json:"referenceID"` // Id of the originating record
	IsReversing     bool            `json:"isReversing"`
	ReversedEntryID *int64          `json:"reversedEntryID"` // Entry this one reverses
	AuditFields
}

// Reversed builds the inverse of this entry: debit and credit swapped,
// amount unchanged, flagged as reversing and linked back to the original.
func (e JournalEntry) Reversed(now time.Time) JournalEntry {
	original := e.EntryID
	return JournalEntry{
		EntryDate:       now,
		Description:     "Reversal of: " + e.Description,
		DebitAccountID:  e.CreditAccountID,
		CreditAccountID: e.DebitAccountID,
		Amount:          e.Amount,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		IsReversing:     true,
		ReversedEntryID: &original,
		AuditFields: AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}
