package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is one transaction seen from the perspective of the queried
// account: exactly one of Debit/Credit is non-zero, and RunningBalance is
// the account balance immediately after the row.
type StatementRow struct {
	TransactionID  int64           `json:"transactionID"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	ReferenceNo    string          `json:"referenceNo"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// DailyBalance is the closing balance of one calendar day within a statement.
type DailyBalance struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryShare is one category's slice of the period's debits.
type CategoryShare struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
}

// StatementAnalytics carries optional derived series for a statement period.
type StatementAnalytics struct {
	DailyBalances []DailyBalance  `json:"dailyBalances"`
	LargestDebit  *StatementRow   `json:"largestDebit"`
	LargestCredit *StatementRow   `json:"largestCredit"`
	ByCategory    []CategoryShare `json:"byCategory"`
}

// StatementData is a reconstructed account statement for a date range,
// derived entirely from the transaction log; the persisted running balance
// field is never read.
type StatementData struct {
	AccountID      int64               `json:"accountID"`
	AccountName    string              `json:"accountName"`
	PeriodStart    time.Time           `json:"periodStart"`
	PeriodEnd      time.Time           `json:"periodEnd"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
	TotalDebits    decimal.Decimal     `json:"totalDebits"`
	TotalCredits   decimal.Decimal     `json:"totalCredits"`
	Rows           []StatementRow      `json:"rows"`
	Analytics      *StatementAnalytics `json:"analytics,omitempty"`
}

// BalanceRecomputeResult compares an account's cached balance with the
// balance derived by folding its non-void transaction log.
type BalanceRecomputeResult struct {
	AccountID      int64           `json:"accountID"`
	CachedBalance  decimal.Decimal `json:"cachedBalance"`
	DerivedBalance decimal.Decimal `json:"derivedBalance"`
	Drift          decimal.Decimal `json:"drift"`
}
