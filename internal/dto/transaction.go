package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// ProcessTransactionRequest is the validated-path submission: the processor
// checks it, applies it atomically and records the journal entry.
type ProcessTransactionRequest struct {
	TransactionType      domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount               decimal.Decimal        `json:"amount" binding:"required"`
	Category             string                 `json:"category"`
	Description          string                 `json:"description"`
	Date                 string                 `json:"date" binding:"required"` // yyyy-MM-dd
	SourceAccountID      *int64                 `json:"sourceAccountID"`
	DestinationAccountID *int64                 `json:"destinationAccountID"` // TRANSFER only
	ProjectID            *int64                 `json:"projectID"`
	WorkerID             *int64                 `json:"workerID"`
}

// InsertTransactionRequest is the legacy, unvalidated path: a bare signed
// balance delta with no journal entry. TRANSFER is not accepted here.
type InsertTransactionRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description"`
	Date            string                 `json:"date" binding:"required"`
	AccountID       int64                  `json:"accountID" binding:"required"`
	ProjectID       *int64                 `json:"projectID"`
	WorkerID        *int64                 `json:"workerID"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        int64                   `json:"transactionID"`
	TransactionType      domain.TransactionType  `json:"transactionType"`
	Amount               decimal.Decimal         `json:"amount"`
	Category             string                  `json:"category"`
	Description          string                  `json:"description"`
	Date                 string                  `json:"date"`
	SourceAccountID      *int64                  `json:"sourceAccountID"`
	DestinationAccountID *int64                  `json:"destinationAccountID"`
	ProjectID            *int64                  `json:"projectID"`
	WorkerID             *int64                  `json:"workerID"`
	State                domain.TransactionState `json:"state"`
	JournalEntryID       *int64                  `json:"journalEntryID"`
	ReferenceNo          string                  `json:"referenceNo"`
	IsReconciled         bool                    `json:"isReconciled"`
	CreatedAt            string                  `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		TransactionType:      txn.TransactionType,
		Amount:               txn.Amount,
		Category:             txn.Category,
		Description:          txn.Description,
		Date:                 FormatDate(txn.Date),
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		ProjectID:            txn.ProjectID,
		WorkerID:             txn.WorkerID,
		State:                txn.State,
		JournalEntryID:       txn.JournalEntryID,
		ReferenceNo:          txn.ReferenceNo,
		IsReconciled:         txn.IsReconciled,
		CreatedAt:            FormatTimestamp(txn.CreatedAt),
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the cursor for the
// next page, if any.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         int64                `json:"entryID"`
	EntryDate       string               `json:"entryDate"`
	Description     string               `json:"description"`
	DebitAccountID  int64                `json:"debitAccountID"`
	CreditAccountID int64                `json:"creditAccountID"`
	Amount          decimal.Decimal      `json:"amount"`
	ReferenceType   domain.ReferenceType `json:"referenceType"`
	ReferenceID     *int64               `json:"referenceID"`
	IsReversing     bool                 `json:"isReversing"`
	ReversedEntryID *int64               `json:"reversedEntryID"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:         entry.EntryID,
		EntryDate:       FormatDate(entry.EntryDate),
		Description:     entry.Description,
		DebitAccountID:  entry.DebitAccountID,
		CreditAccountID: entry.CreditAccountID,
		Amount:          entry.Amount,
		ReferenceType:   entry.ReferenceType,
		ReferenceID:     entry.ReferenceID,
		IsReversing:     entry.IsReversing,
		ReversedEntryID: entry.ReversedEntryID,
	}
}

// RecordEntryRequest defines a standalone journal append (adjustments,
// opening balances). The journal engine does not validate account existence;
// callers must have done so.
type RecordEntryRequest struct {
	Date            string               `json:"date" binding:"required"`
	Description     string               `json:"description"`
	DebitAccountID  int64                `json:"debitAccountID" binding:"required"`
	CreditAccountID int64                `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	ReferenceType   domain.ReferenceType `json:"referenceType" binding:"required,oneof=TRANSACTION PAYROLL ADVANCE TRANSFER ADJUSTMENT OPENING_BALANCE"`
	ReferenceID     *int64               `json:"referenceID"`
}
